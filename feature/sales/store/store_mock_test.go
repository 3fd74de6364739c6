package store_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"sales-reconciler/feature/sales/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockStore backs the store with sqlmock so the MySQL SQL surface can be
// asserted without a server.
func setupMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return store.New(db), mock
}

func TestTrackedEventIDsQuery(t *testing.T) {
	s, mock := setupMockStore(t)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `events` WHERE end_datetime >= ?")).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(9))

	tracked, err := s.TrackedEventIDs(date)
	require.NoError(t, err)
	assert.Contains(t, tracked, 7)
	assert.Contains(t, tracked, 9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTicketTypeStockSQL(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `ticket_type` SET `total_stock`=? WHERE id = ?")).
		WithArgs(80, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpdateTicketTypeStock(10, 80))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesForEventQueryFailure(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM `event_sales`").
		WillReturnError(errors.New("connection lost"))

	_, err := s.SalesForEvent(7)
	assert.ErrorContains(t, err, "connection lost")
}
