package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"sales-reconciler/core/config"
	"sales-reconciler/core/database"
	"sales-reconciler/core/logger"
	"sales-reconciler/core/storage"
	"sales-reconciler/feature/sales"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd runs a single reconciliation pass and prints the result as JSON.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass",
	Long:  `Fetches the newest sales export, reconciles it against the ticketing API and the database, and prints the result as JSON. Exits non-zero when the run fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		svc := sales.NewService(store, cfg.Storage.Bucket, cfg.Ticketing, logg, db)
		if err := svc.Migrate(); err != nil {
			logg.Fatal("Failed to migrate database schema", zap.Error(err))
		}

		result, err := svc.Reconcile(context.Background())
		if err != nil {
			logg.Fatal("Reconciliation run failed", zap.Error(err))
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logg.Fatal("Failed to encode result", zap.Error(err))
		}
		os.Stdout.Write(append(out, '\n'))

		if !result.Success {
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
