package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/logger"
	"github.com/nakelabs/kasa-alert-connect/internal/repository/gormstore"
)

var rootCmd = &cobra.Command{
	Use:           "kasactl",
	Short:         "KASA Alert Connect admin tool",
	Long:          "Administrative commands for KASA Alert Connect: store migrations and agency accounts.",
	SilenceUsage:  true,
	SilenceErrors: false,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(agencyCmd)
}

// env bundles what every store-backed command needs
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *gormstore.Store
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Error("Failed to close store", zap.Error(err))
	}
	_ = e.log.Sync()
}

// openEnv loads config, opens the store and applies migrations
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Service.Environment, "kasactl")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := gormstore.Open(cfg.Store, log)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &env{cfg: cfg, log: log, store: store}, nil
}
