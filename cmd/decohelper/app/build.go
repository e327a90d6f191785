package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Girbilcannon/DecoToolsHelper/internal/app"
	"github.com/Girbilcannon/DecoToolsHelper/internal/config"
	"github.com/Girbilcannon/DecoToolsHelper/internal/sync/coordinator"
)

func newBuildCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bring the decoration database up to date once and exit",
		Long: `Fetch the catalog identifiers, compare them with the stored database and
rebuild it when anything changed. Exits non-zero when the build fails; the
previous database is left untouched in that case.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBuild(ctx, v, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int("batch-size", 0, "Identifiers per bulk catalog query (1-50)")
	mustBind(v, config.KeyBatchSize, cmd.Flags().Lookup("batch-size"))

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runBuild(ctx context.Context, v *viper.Viper, out io.Writer) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	coord, _, err := app.NewCoordinator(ctx, app.WithConfig(cfg))
	if err != nil {
		return err
	}

	result := coord.EnsureUpToDate(ctx, func(p coordinator.Progress) {
		_, _ = fmt.Fprintf(out, "[%s] %s\n", p.Stage, p.Message)
	})

	switch {
	case result.Deferred:
		_, _ = fmt.Fprintln(out, "Another build is already running; nothing to do")
		return nil
	case !result.Success:
		return fmt.Errorf("build %s failed: %s", result.BuildID, result.Error)
	case result.Skipped:
		_, _ = fmt.Fprintf(out, "Up to date: %d decorations in %s\n", result.TotalEntries, result.StoragePath)
	default:
		_, _ = fmt.Fprintf(out, "Rebuilt (%s): %d decorations written to %s in %s\n",
			result.Reason, result.TotalEntries, result.StoragePath, result.Duration.Round(time.Millisecond))
	}
	return nil
}
