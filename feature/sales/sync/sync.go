package sync

import (
	"context"
	"strings"
	"time"

	"sales-reconciler/feature/sales/export"
	"sales-reconciler/feature/sales/models"
	"sales-reconciler/feature/sales/parse"
	"sales-reconciler/feature/sales/ticketing"

	"go.uber.org/zap"
)

// ExportSource provides the newest sales export, nil when none exists.
type ExportSource interface {
	LatestCSV(ctx context.Context) (*export.Export, error)
}

// TicketTypeAPI provides the authoritative ticket-type inventory of an event.
type TicketTypeAPI interface {
	SaleItems(ctx context.Context, eventID int) ([]ticketing.SaleItem, error)
}

// Gateway is the persistence surface the engine reconciles against.
type Gateway interface {
	UpsertEvent(event models.Event) error
	TrackedEventIDs(date time.Time) (map[int]struct{}, error)
	UpsertTicketType(tt models.TicketType) error
	UpdateTicketTypeStock(id int, totalStock int) error
	TicketTypesForEvent(eventID int) (map[int]models.TicketType, error)
	InsertSale(sale *models.EventSale) error
	SalesForEvent(eventID int) ([]models.EventSale, error)
	UpdateSale(id int64, sale models.EventSale) error
}

// Engine reconciles one export against the ticketing API and the store.
// It holds no state across runs.
type Engine struct {
	exports ExportSource
	api     TicketTypeAPI
	store   Gateway
	logger  *zap.Logger
	now     func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(exports ExportSource, api TicketTypeAPI, store Gateway, logger *zap.Logger) *Engine {
	return &Engine{
		exports: exports,
		api:     api,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// saleKey identifies a sale row within a tracked event. It is an engine
// convention, not a storage constraint: two physical sales sharing the pair
// collapse into one updated row (known upstream limitation).
type saleKey struct {
	ticketTypeID    int
	paymentMethodID int
}

// Run executes one reconciliation pass. A missing or empty export is a
// run-level failure reported in the result; persistence failures are returned
// as errors with no rollback of writes already made.
func (e *Engine) Run(ctx context.Context) (models.RunResult, error) {
	exp, err := e.exports.LatestCSV(ctx)
	if err != nil {
		return models.RunResult{}, err
	}
	if exp == nil {
		return models.RunResult{Success: false, Message: "No export found"}, nil
	}

	rows, err := export.ReadRows(exp.Content)
	if err != nil {
		return models.RunResult{}, err
	}
	if len(rows) == 0 {
		return models.RunResult{Success: false, Message: "Export is empty"}, nil
	}

	eventIDs, grouped := groupByEvent(rows)
	if skipped := len(rows) - countRows(grouped); skipped > 0 {
		e.logger.Warn("Skipped rows without a valid event id", zap.Int("count", skipped))
	}

	today := e.today()
	tracked, err := e.store.TrackedEventIDs(today)
	if err != nil {
		return models.RunResult{}, err
	}

	results := &models.RunResults{Processed: []models.ProcessedEvent{}}
	for _, eventID := range eventIDs {
		eventRows := grouped[eventID]

		if _, ok := tracked[eventID]; !ok {
			detail, err := e.processNew(ctx, eventID, eventRows)
			if err != nil {
				return models.RunResult{}, err
			}
			results.Processed = append(results.Processed, models.ProcessedEvent{
				EventID: eventID,
				Action:  "inserted",
				Detail:  detail,
			})
		} else {
			detail, err := e.syncExisting(ctx, eventID, eventRows)
			if err != nil {
				return models.RunResult{}, err
			}
			results.Processed = append(results.Processed, models.ProcessedEvent{
				EventID: eventID,
				Action:  "synced",
				Detail:  detail,
			})
		}
	}

	return models.RunResult{Success: true, Results: results}, nil
}

// processNew handles an event not yet tracked: upsert the event from its
// first row, best-effort sync of ticket types, then unconditional inserts of
// every qualifying sale row.
func (e *Engine) processNew(ctx context.Context, eventID int, rows []export.Row) (models.NewEventDetail, error) {
	first := rows[0]

	start := parse.DateTime(first["start_datetime"])
	if start == nil && first["start_datetime"] != "" {
		e.logger.Warn("Could not parse start datetime, storing NULL",
			zap.Int("event_id", eventID),
			zap.String("value", first["start_datetime"]),
		)
	}

	var end *time.Time
	if raw := first["end_datetime"]; raw != "" {
		end = parse.Date(raw)
		if end == nil {
			e.logger.Warn("Could not parse end datetime, storing NULL",
				zap.Int("event_id", eventID),
				zap.String("value", raw),
			)
		}
	}

	err := e.store.UpsertEvent(models.Event{
		ID:            eventID,
		Name:          first["event_name"],
		StartDatetime: start,
		EndDatetime:   end,
	})
	if err != nil {
		return models.NewEventDetail{}, err
	}

	for _, item := range e.fetchSaleItems(ctx, eventID) {
		err := e.store.UpsertTicketType(models.TicketType{
			ID:         item.ItemID,
			EventID:    eventID,
			TicketName: item.Name,
			TotalStock: item.TotalStock,
		})
		if err != nil {
			return models.NewEventDetail{}, err
		}
	}

	inserted := 0
	for _, row := range rows {
		ticketTypeID := parse.Int(row["ticket_type_id"])
		if ticketTypeID == 0 {
			continue
		}

		qtyRaw := row["total_tickets"]
		if qtyRaw == "" {
			qtyRaw = row["qty"]
		}

		sale := buildSale(eventID, ticketTypeID, parse.Int(qtyRaw), row)
		if err := e.store.InsertSale(&sale); err != nil {
			return models.NewEventDetail{}, err
		}
		inserted++
	}

	return models.NewEventDetail{Success: true, EventID: eventID, InsertedSales: inserted}, nil
}

// syncExisting handles an already-tracked event: reconcile ticket types
// against the API snapshot, then diff incoming sale rows against the
// persisted ones keyed by (ticket_type_id, payment_method_id).
func (e *Engine) syncExisting(ctx context.Context, eventID int, rows []export.Row) (models.SyncDetail, error) {
	existingTypes, err := e.store.TicketTypesForEvent(eventID)
	if err != nil {
		return models.SyncDetail{}, err
	}

	for _, item := range e.fetchSaleItems(ctx, eventID) {
		existing, ok := existingTypes[item.ItemID]
		if !ok {
			err := e.store.UpsertTicketType(models.TicketType{
				ID:         item.ItemID,
				EventID:    eventID,
				TicketName: item.Name,
				TotalStock: item.TotalStock,
			})
			if err != nil {
				return models.SyncDetail{}, err
			}
			continue
		}
		if existing.TotalStock != item.TotalStock {
			if err := e.store.UpdateTicketTypeStock(item.ItemID, item.TotalStock); err != nil {
				return models.SyncDetail{}, err
			}
		}
	}

	persisted, err := e.store.SalesForEvent(eventID)
	if err != nil {
		return models.SyncDetail{}, err
	}

	// Snapshot taken once, then mutated only in memory; later rows with the
	// same key compare against the latest written values (last write wins).
	existing := make(map[saleKey]models.EventSale, len(persisted))
	for _, sale := range persisted {
		existing[saleKey{sale.TicketTypeID, sale.PaymentMethodID}] = sale
	}

	inserts := 0
	updates := 0
	for _, row := range rows {
		ticketTypeID := parse.Int(row["ticket_type_id"])
		if ticketTypeID == 0 {
			continue
		}

		candidate := buildSale(eventID, ticketTypeID, parse.Int(row["total_tickets"]), row)
		key := saleKey{candidate.TicketTypeID, candidate.PaymentMethodID}

		current, ok := existing[key]
		if !ok {
			if err := e.store.InsertSale(&candidate); err != nil {
				return models.SyncDetail{}, err
			}
			existing[key] = candidate
			inserts++
			continue
		}

		if saleNeedsUpdate(current, candidate) {
			if err := e.store.UpdateSale(current.ID, candidate); err != nil {
				return models.SyncDetail{}, err
			}
			candidate.ID = current.ID
			existing[key] = candidate
			updates++
		}
	}

	return models.SyncDetail{EventID: eventID, Inserted: inserts, Updated: updates}, nil
}

// fetchSaleItems wraps the API accessor: failures degrade the event's
// ticket-type sync to an empty list instead of aborting the run.
func (e *Engine) fetchSaleItems(ctx context.Context, eventID int) []ticketing.SaleItem {
	items, err := e.api.SaleItems(ctx, eventID)
	if err != nil {
		e.logger.Warn("Failed to fetch ticket types, continuing without inventory sync",
			zap.Int("event_id", eventID),
			zap.Error(err),
		)
		return nil
	}
	return items
}

// buildSale computes a candidate sale row from one export row.
func buildSale(eventID, ticketTypeID, qty int, row export.Row) models.EventSale {
	paymentMethodID, ok := parse.PaymentMethod(row["payment_method"])
	if !ok {
		paymentMethodID = parse.CodeUnknown
	}

	var gateway *string
	if trimmed := strings.TrimSpace(row["payment_gateway"]); trimmed != "" {
		gateway = &trimmed
	}

	return models.EventSale{
		EventID:         eventID,
		TicketTypeID:    ticketTypeID,
		PaymentMethodID: paymentMethodID,
		Qty:             qty,
		PriceGross:      parse.Currency(row["price_gross"]),
		PriceNet:        parse.Currency(row["price_net"]),
		Refund:          parse.Currency(row["refund_online"]) + parse.Currency(row["refund_offline"]),
		Fee:             parse.Currency(row["fee"]),
		Discount:        parse.Currency(row["discount"]),
		PaymentGateway:  gateway,
	}
}

// saleNeedsUpdate compares the reconciled fields of two sale rows. The
// payment gateway is compared with nil normalized to the empty string.
func saleNeedsUpdate(existing, candidate models.EventSale) bool {
	if existing.Qty != candidate.Qty {
		return true
	}
	if existing.PriceGross != candidate.PriceGross {
		return true
	}
	if existing.PriceNet != candidate.PriceNet {
		return true
	}
	if existing.Refund != candidate.Refund {
		return true
	}
	if existing.Fee != candidate.Fee {
		return true
	}
	if existing.Discount != candidate.Discount {
		return true
	}
	return gatewayString(existing.PaymentGateway) != gatewayString(candidate.PaymentGateway)
}

func gatewayString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// groupByEvent partitions rows by event id, preserving first-appearance order
// and discarding rows whose id coerces to zero.
func groupByEvent(rows []export.Row) ([]int, map[int][]export.Row) {
	var order []int
	grouped := make(map[int][]export.Row)

	for _, row := range rows {
		eventID := parse.Int(row["event_id"])
		if eventID == 0 {
			continue
		}
		if _, ok := grouped[eventID]; !ok {
			order = append(order, eventID)
		}
		grouped[eventID] = append(grouped[eventID], row)
	}

	return order, grouped
}

func countRows(grouped map[int][]export.Row) int {
	total := 0
	for _, rows := range grouped {
		total += len(rows)
	}
	return total
}

// today returns the run's UTC calendar date at midnight, used to decide which
// persisted events still count as tracked.
func (e *Engine) today() time.Time {
	now := e.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
