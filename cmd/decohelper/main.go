// Package main is the entry point for the DecoToolsHelper decoration catalog helper.
package main

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Girbilcannon/DecoToolsHelper/cmd/decohelper/app"
	"github.com/Girbilcannon/DecoToolsHelper/internal/config"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
)

// getLogLevel reads DECOHELPER_LOG_LEVEL and falls back to LOG_LEVEL.
func getLogLevel() string {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	level := v.GetString("LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	return level
}

func main() {
	// Logs go to stderr so stdout stays clean for command output
	var opts []logger.Option
	if strings.EqualFold(os.Getenv(config.EnvPrefix+"_LOG_FORMAT"), "json") {
		opts = append(opts, logger.WithJSON())
	}
	if err := logger.Initialize(getLogLevel(), opts...); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if err := app.NewRootCmd().Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
