package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Girbilcannon/DecoToolsHelper/internal/store"
)

// errNotReady is returned when no usable database exists yet
var errNotReady = errors.New("no decoration database available; run 'decohelper build' first")

func newShowCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Describe the stored decoration database",
		Long: `Print a summary of the stored decoration database, look up one decoration
with --name, or dump the whole database with --format json.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			format, _ := cmd.Flags().GetString("format")
			return runShow(cmd, v, name, format)
		},
	}

	cmd.Flags().String("name", "", "Look up a single decoration by name (case-insensitive)")
	cmd.Flags().String("format", "", "Output format (json)")

	return cmd
}

func runShow(cmd *cobra.Command, v *viper.Viper, name, format string) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	st := store.NewFileStore(cfg.DataDir)
	db, ok := st.TryLoad(commandContext(cmd))
	if !ok {
		return errNotReady
	}

	out := cmd.OutOrStdout()

	if name != "" {
		entry, found := db.Lookup(name)
		if !found {
			return fmt.Errorf("decoration %q not found", name)
		}
		return writeJSON(out, entry)
	}

	if format == "json" {
		return writeJSON(out, db)
	}

	_, err = fmt.Fprintf(out,
		"Database:     %s\nGenerated:    %s\nDecorations:  %d\nGuild IDs:    %d\nHomestead IDs: %d\n",
		st.Path(),
		db.GeneratedAtUTC.Format(time.RFC3339),
		len(db.Decorations),
		db.SourceSnapshot.GuildUpgradeIDs.Len(),
		db.SourceSnapshot.HomesteadIDs.Len(),
	)
	return err
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
