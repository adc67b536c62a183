// Package cmd provides the CLI commands for the price index engine.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/storekit/priceindex/internal/catalog"
	"github.com/storekit/priceindex/internal/priceindex"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/internal/scope"
	"github.com/storekit/priceindex/pkg/config"
	"github.com/storekit/priceindex/pkg/db"
	"github.com/storekit/priceindex/pkg/logger"
	"github.com/storekit/priceindex/pkg/metrics"
	"github.com/storekit/priceindex/pkg/migrate"
)

var rootCmd = &cobra.Command{
	Use:   "priceindex",
	Short: "Catalog price index engine",
	Long: `priceindex maintains the denormalized catalog price index.

It computes final, minimal and maximal prices per product, customer group
and store, and keeps the dimensioned index tables in sync with the catalog.

Examples:
  priceindex full
  priceindex rows 42 97 103
  priceindex watch
  priceindex migrate up`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(migrateCmd)
}

// runtime holds the shared process dependencies a command bootstraps once.
type runtime struct {
	cfg    *config.Config
	logg   *logger.Logger
	client *db.Client
}

func bootstrap(ctx context.Context, service string) (*runtime, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: service,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, logg: logg, client: client}, nil
}

func (rt *runtime) Close() {
	_ = rt.client.Close()
}

func newOrchestrator(rt *runtime) (*priceindex.Orchestrator, error) {
	runScope, err := scope.FromConfig(rt.cfg)
	if err != nil {
		return nil, err
	}
	return priceindex.NewOrchestrator(priceindex.OrchestratorDeps{
		Scope:      runScope,
		Catalog:    catalog.NewRepository(rt.client.DB()),
		RateSource: rates.NewRepository(rt.client.DB()),
		Maintainer: priceindex.NewTableMaintainer(rt.client, rt.logg),
		Client:     rt.client,
		Metrics:    metrics.NewReindexMetrics(prometheus.DefaultRegisterer),
		Logger:     rt.logg,
		BatchSize:  rt.cfg.Index.BatchSize,
	})
}
