// Package cmd implements the CLI commands for convertero using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fauzanfathoni/convertero2an/internal/config"
	"github.com/fauzanfathoni/convertero2an/internal/history"
	"github.com/fauzanfathoni/convertero2an/internal/logging"
)

var (
	flagConfig string

	// cfg and logger are set by the root PersistentPreRunE.
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "convertero",
	Short: "convertero: convert KML/KMZ placemarks into tables",
	Long: `convertero reads KML or KMZ survey files and turns every placemark into a
table row: coordinates, attribute fields, the pole serving its FAT and a
HOME/BIZ classification. Tables are written as CSV, JSON, Markdown or PDF.

Usage:
  convertero convert <file|url> [flags]
  convertero inspect <file>
  convertero serve [--addr :8080]
  convertero history`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./"+config.DefaultFile+" if present)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openHistory opens the job log when it is enabled. A nil store means
// history is off.
func openHistory() (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}
