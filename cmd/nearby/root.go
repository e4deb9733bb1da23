package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/event-discovery-service/internal/adapter/nominatim"
	"github.com/couchcryptid/event-discovery-service/internal/adapter/ticketmaster"
	"github.com/couchcryptid/event-discovery-service/internal/config"
	"github.com/couchcryptid/event-discovery-service/internal/observability"
	"github.com/couchcryptid/event-discovery-service/internal/pipeline"
)

var (
	cfg     *config.Config
	disc    *pipeline.Pipeline
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Find events near a place",
	Long:  "Geocodes an address or takes coordinates, then lists Ticketmaster events within a radius, nearest first.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		metrics := observability.NewMetrics()

		disc = pipeline.New(
			ticketmaster.NewClient(cfg, metrics, logger),
			logger,
			metrics,
			pipeline.WithGeocoder(nominatim.NewClient(cfg, metrics, logger)),
			pipeline.WithTimeout(cfg.RequestTimeout),
		)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log adapter activity to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
