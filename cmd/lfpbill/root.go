package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/lfpbill/internal/config"
	"github.com/gyeh/lfpbill/internal/exitcode"
	"github.com/gyeh/lfpbill/internal/logging"
)

var (
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:               "lfpbill",
	Short:             "LFP billing data entry",
	Long:              "Validates LFP service lines against the billing catalog and diagnosis codes, keeps the patient registry in sync, and writes per-batch service record exports.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&cfg.DataDir, "data-dir", os.Getenv("LFPBILL_DATA_DIR"), "Directory holding the patient registry and diagnosis tables (or set LFPBILL_DATA_DIR)")
	pf.StringVar(&cfg.LogFormat, "log-format", "", "Log format: text or json (default text)")
	pf.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
}

// loadConfig merges the config file under the flags and fills defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitcode.UsageError)
		}
	}
	cfg.ApplyDefaults()
	return nil
}

// setup builds the logger and exits on an invalid configuration.
func setup() zerolog.Logger {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	return log
}
