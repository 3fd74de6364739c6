package models

import "time"

// Event represents a tracked event, keyed by the upstream event id.
type Event struct {
	ID            int        `gorm:"column:id;primaryKey" json:"id"`
	Name          string     `gorm:"column:name" json:"name"`
	StartDatetime *time.Time `gorm:"column:start_datetime" json:"start_datetime"`
	EndDatetime   *time.Time `gorm:"column:end_datetime;type:date" json:"end_datetime"`
}

// TableName overrides the table name for Event.
func (Event) TableName() string {
	return "events"
}

// TicketType represents one ticket type of an event, mirroring the ticketing
// API's current inventory snapshot.
type TicketType struct {
	ID         int    `gorm:"column:id;primaryKey" json:"id"`
	EventID    int    `gorm:"column:event_id" json:"event_id"`
	TicketName string `gorm:"column:ticket_name" json:"ticket_name"`
	TotalStock int    `gorm:"column:total_stock" json:"total_stock"`
}

// TableName overrides the table name for TicketType.
func (TicketType) TableName() string {
	return "ticket_type"
}

// EventSale is one reconciled sales record for a ticket type and payment
// method within an event. The storage id is assigned on insert.
type EventSale struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID         int     `gorm:"column:event_id" json:"event_id"`
	TicketTypeID    int     `gorm:"column:ticket_type_id" json:"ticket_type_id"`
	PaymentMethodID int     `gorm:"column:payment_method_id" json:"payment_method_id"`
	Qty             int     `gorm:"column:qty" json:"qty"`
	PriceGross      float64 `gorm:"column:price_gross" json:"price_gross"`
	PriceNet        float64 `gorm:"column:price_net" json:"price_net"`
	Refund          float64 `gorm:"column:refund" json:"refund"`
	Fee             float64 `gorm:"column:fee" json:"fee"`
	Discount        float64 `gorm:"column:discount" json:"discount"`
	PaymentGateway  *string `gorm:"column:payment_gateway" json:"payment_gateway"`
}

// TableName overrides the table name for EventSale.
func (EventSale) TableName() string {
	return "event_sales"
}

// RunResult is the outcome of one reconciliation run.
type RunResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Results *RunResults `json:"results,omitempty"`
}

// RunResults aggregates the per-event outcomes of a run.
type RunResults struct {
	Processed []ProcessedEvent `json:"processed"`
}

// ProcessedEvent tags one event's outcome: "inserted" for events seen for the
// first time, "synced" for already-tracked events.
type ProcessedEvent struct {
	EventID int    `json:"event_id"`
	Action  string `json:"action"`
	Detail  any    `json:"detail"`
}

// NewEventDetail is the detail payload for an event processed as new.
type NewEventDetail struct {
	Success       bool `json:"success"`
	EventID       int  `json:"event_id"`
	InsertedSales int  `json:"inserted_sales"`
}

// SyncDetail is the detail payload for an already-tracked event.
type SyncDetail struct {
	EventID  int `json:"event_id"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}
