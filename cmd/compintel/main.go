package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "compintel"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Comparable-flip intelligence for residential assets",
		Version: version,
		Long: `compintel turns noisy public-record rows into clean investment reports:
transaction classification, permit milestone extraction, timeline
reconciliation, and deal metrics that are absent rather than wrong when the
underlying data is incomplete.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config (defaults apply when omitted)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
