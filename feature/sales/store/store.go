package store

import (
	"fmt"
	"time"

	"sales-reconciler/feature/sales/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence gateway for events, ticket types and sale rows.
// It is the only component that touches the relational database.
type Store struct {
	db *gorm.DB
}

// New creates a new Store bound to the given database connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the reconciler's tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.Event{}, &models.TicketType{}, &models.EventSale{})
}

// UpsertEvent inserts the event or replaces its attributes by id.
func (s *Store) UpsertEvent(event models.Event) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "start_datetime", "end_datetime"}),
	}).Create(&event).Error
	if err != nil {
		return fmt.Errorf("failed to upsert event %d: %w", event.ID, err)
	}
	return nil
}

// TrackedEventIDs returns the ids of events whose end date is on or after the
// given date. Events absent from this set are treated as new by the engine.
func (s *Store) TrackedEventIDs(date time.Time) (map[int]struct{}, error) {
	var ids []int
	err := s.db.Model(&models.Event{}).
		Where("end_datetime >= ?", date).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked events: %w", err)
	}

	tracked := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		tracked[id] = struct{}{}
	}
	return tracked, nil
}

// UpsertTicketType inserts the ticket type or replaces it by id.
func (s *Store) UpsertTicketType(tt models.TicketType) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"event_id", "ticket_name", "total_stock"}),
	}).Create(&tt).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ticket type %d: %w", tt.ID, err)
	}
	return nil
}

// UpdateTicketTypeStock updates only the stock counter of a ticket type.
func (s *Store) UpdateTicketTypeStock(id int, totalStock int) error {
	err := s.db.Model(&models.TicketType{}).
		Where("id = ?", id).
		Update("total_stock", totalStock).Error
	if err != nil {
		return fmt.Errorf("failed to update stock of ticket type %d: %w", id, err)
	}
	return nil
}

// TicketTypesForEvent returns the event's persisted ticket types keyed by id.
func (s *Store) TicketTypesForEvent(eventID int) (map[int]models.TicketType, error) {
	var rows []models.TicketType
	if err := s.db.Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ticket types of event %d: %w", eventID, err)
	}

	byID := make(map[int]models.TicketType, len(rows))
	for _, tt := range rows {
		byID[tt.ID] = tt
	}
	return byID, nil
}

// InsertSale inserts a sale row and fills in its storage-assigned id.
func (s *Store) InsertSale(sale *models.EventSale) error {
	if err := s.db.Create(sale).Error; err != nil {
		return fmt.Errorf("failed to insert sale row for event %d: %w", sale.EventID, err)
	}
	return nil
}

// SalesForEvent returns the event's persisted sale rows.
func (s *Store) SalesForEvent(eventID int) ([]models.EventSale, error) {
	var rows []models.EventSale
	if err := s.db.Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load sale rows of event %d: %w", eventID, err)
	}
	return rows, nil
}

// UpdateSale replaces the reconciled fields of an existing sale row. A map is
// used so zero values (qty 0, cleared gateway) are written as well.
func (s *Store) UpdateSale(id int64, sale models.EventSale) error {
	values := map[string]any{
		"event_id":          sale.EventID,
		"ticket_type_id":    sale.TicketTypeID,
		"payment_method_id": sale.PaymentMethodID,
		"qty":               sale.Qty,
		"price_gross":       sale.PriceGross,
		"price_net":         sale.PriceNet,
		"refund":            sale.Refund,
		"fee":               sale.Fee,
		"discount":          sale.Discount,
		"payment_gateway":   sale.PaymentGateway,
	}

	err := s.db.Model(&models.EventSale{}).Where("id = ?", id).Updates(values).Error
	if err != nil {
		return fmt.Errorf("failed to update sale row %d: %w", id, err)
	}
	return nil
}
