package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiveml/hivehost/domain/entities"
	"github.com/hiveml/hivehost/infrastructure/parser"
)

var rootCmd = &cobra.Command{
	Use:   "hivehost",
	Short: "Host runtime for hive experiment guests",
	Long: `hivehost - Run untrusted experiment modules safely using WebAssembly.

Experiment guests are compiled to WASM and get no ambient access to the
system. The only way out is the hive import namespace, which submits and
tracks training runs on a remote hive service on the guest's behalf.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to host config YAML")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// loadConfig resolves the host configuration from the --config flag, falling
// back to defaults when no file is given.
func loadConfig(cmd *cobra.Command) (*entities.HostConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cfg := entities.DefaultHostConfig()
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parser.NewYamlConfigParser().Parse(data)
}

// newLogger builds the process logger from the configured level.
func newLogger(cmd *cobra.Command, cfg *entities.HostConfig) (*slog.Logger, error) {
	level := cfg.LogLevel
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}

	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
