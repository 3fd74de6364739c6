package sales

import (
	"sales-reconciler/core/storage"
	"sales-reconciler/feature/sales/ticketing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the sales reconciliation feature.
func NewFeature(client storage.Client, bucket string, ticketingCfg ticketing.Config, logger *zap.Logger, db *gorm.DB) *Feature {
	svc := NewService(client, bucket, ticketingCfg, logger, db)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sales"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the feature's tables and registers its routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
