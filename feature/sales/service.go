package sales

import (
	"context"

	"sales-reconciler/core/storage"
	"sales-reconciler/feature/sales/export"
	"sales-reconciler/feature/sales/models"
	"sales-reconciler/feature/sales/store"
	"sales-reconciler/feature/sales/sync"
	"sales-reconciler/feature/sales/ticketing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service wires the export fetcher, ticketing client and persistence gateway
// into the reconciliation engine.
type Service struct {
	engine *sync.Engine
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a new sales reconciliation service.
func NewService(client storage.Client, bucket string, ticketingCfg ticketing.Config, logger *zap.Logger, db *gorm.DB) *Service {
	fetcher := export.NewFetcher(client, bucket, logger)
	api := ticketing.NewClient(ticketingCfg)
	gateway := store.New(db)

	return &Service{
		engine: sync.NewEngine(fetcher, api, gateway, logger),
		store:  gateway,
		logger: logger,
	}
}

// Migrate creates or updates the reconciler's tables.
func (s *Service) Migrate() error {
	return s.store.Migrate()
}

// Reconcile runs one reconciliation pass.
func (s *Service) Reconcile(ctx context.Context) (models.RunResult, error) {
	return s.engine.Run(ctx)
}
