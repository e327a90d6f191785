// Package app provides the command line of the DecoToolsHelper decoration catalog helper.
package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Girbilcannon/DecoToolsHelper/internal/config"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
	"github.com/Girbilcannon/DecoToolsHelper/internal/versions"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagDataDir = "data-dir"
)

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	return newRootCmd(viper.New())
}

// newRootCmd builds the command tree on v. Tests pass a viper instance with
// overrides already set.
func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "decohelper",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Guild Wars 2 decoration catalog helper",
		Long: `decohelper builds a local decoration database from the guild hall upgrade
and homestead decoration catalogs and serves it to companion tools.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if v.GetBool(flagDebug) {
				if err := logger.Initialize("debug"); err != nil {
					return err
				}
				logger.Debugf("Debug logging enabled")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				logger.Errorf("Error displaying help: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().Bool(flagDebug, false, "Enable debug logging")
	rootCmd.PersistentFlags().String(flagConfig, "",
		"Path to configuration file (YAML). Defaults to DecoToolsHelper/config.yaml in the XDG config directories")
	rootCmd.PersistentFlags().String(flagDataDir, "", "Directory holding the decoration database")

	mustBind(v, flagDebug, rootCmd.PersistentFlags().Lookup(flagDebug))
	mustBind(v, flagConfig, rootCmd.PersistentFlags().Lookup(flagConfig))
	mustBind(v, config.KeyDataDir, rootCmd.PersistentFlags().Lookup(flagDataDir))

	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newBuildCmd(v))
	rootCmd.AddCommand(newShowCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		logger.Fatalf("Failed to bind %s flag: %v", key, err)
	}
}

// loadConfig resolves the configuration file and applies environment and
// flag overrides bound on v.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	if err := config.BindEnv(v); err != nil {
		return nil, err
	}

	opts := []config.Option{config.WithViper(v)}

	path := v.GetString(flagConfig)
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		opts = append(opts, config.WithConfigPath(path))
		logger.Debugf("Using configuration file %s", path)
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("error retrieving format flag: %w", err)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("error formatting version info as JSON: %w", err)
				}
				_, err = fmt.Fprintln(out, string(output))
				return err
			}

			_, err = fmt.Fprintf(out, "decohelper %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}
