// Package main provides the propsage CLI for pricing player prop markets.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akashjainn/propsage-sub000/internal/config"
	"github.com/akashjainn/propsage-sub000/internal/logger"
	"github.com/akashjainn/propsage-sub000/internal/metrics"
	"github.com/akashjainn/propsage-sub000/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	log        *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(priceCmd, simulateCmd, devigCmd, watchCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:           "propsage",
	Short:         "Fair-value pricing for player prop markets",
	Long:          `Devigs sportsbook quotes, builds consensus and probability curves, solves the fair market line and prices edges for player prop markets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogger()
		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.App.LogLevel = logLevel
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// setupLogger logs to stderr so stdout carries only JSON results
func setupLogger() {
	log = logger.NewLoggerWithOutput(cfg.App.LogLevel, os.Stderr)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Debug("Configuration loaded")
}

func newPricingService() *service.PricingService {
	svc := service.NewPricingService(cfg.PricingOptions(), log)
	if cfg.Cache.Enabled {
		svc.WithCache(service.NewResultCache(cfg.CacheTTL(), cfg.Cache.MaxSize))
	}
	return svc
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes v as JSON to path, or to stdout when path is empty
func writeOutput(path string, v interface{}) error {
	if path == "" {
		return writeJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	if err := writeJSON(f, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// exportMetrics writes the textfile when metrics are enabled and a path is set
func exportMetrics(path string) {
	if !cfg.Metrics.Enabled || path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.WithError(err).Warn("Failed to export metrics")
		return
	}
	log.WithField("path", path).Debug("Metrics exported")
}
