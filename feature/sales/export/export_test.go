package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"sales-reconciler/core/storage/mocks"
	"sales-reconciler/feature/sales/export"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objectChannel(objects ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		ch <- obj
	}
	close(ch)
	return ch
}

func TestLatestCSV(t *testing.T) {
	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	t.Run("PicksNewestCSV", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "exports", mock.Anything).Return(objectChannel(
			minio.ObjectInfo{Key: "sales-old.csv", LastModified: older},
			minio.ObjectInfo{Key: "readme.txt", LastModified: newer.Add(time.Hour)},
			minio.ObjectInfo{Key: "sales-new.CSV", LastModified: newer},
		))
		client.On("GetObject", mock.Anything, "exports", "sales-new.CSV", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("event_id\n1\n"))), nil)

		f := export.NewFetcher(client, "exports", zap.NewNop())
		exp, err := f.LatestCSV(context.Background())

		require.NoError(t, err)
		require.NotNil(t, exp)
		assert.Equal(t, "sales-new.CSV", exp.Key)
		assert.Equal(t, []byte("event_id\n1\n"), exp.Content)
		client.AssertExpectations(t)
	})

	t.Run("TieBrokenByGreatestKey", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "exports", mock.Anything).Return(objectChannel(
			minio.ObjectInfo{Key: "sales-a.csv", LastModified: newer},
			minio.ObjectInfo{Key: "sales-b.csv", LastModified: newer},
		))
		client.On("GetObject", mock.Anything, "exports", "sales-b.csv", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("x"))), nil)

		f := export.NewFetcher(client, "exports", zap.NewNop())
		exp, err := f.LatestCSV(context.Background())

		require.NoError(t, err)
		require.NotNil(t, exp)
		assert.Equal(t, "sales-b.csv", exp.Key)
	})

	t.Run("NoCSVReturnsNil", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "exports", mock.Anything).Return(objectChannel(
			minio.ObjectInfo{Key: "notes.json", LastModified: newer},
		))

		f := export.NewFetcher(client, "exports", zap.NewNop())
		exp, err := f.LatestCSV(context.Background())

		require.NoError(t, err)
		assert.Nil(t, exp)
	})

	t.Run("ListErrorSurfaces", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "exports", mock.Anything).Return(objectChannel(
			minio.ObjectInfo{Err: errors.New("access denied")},
		))

		f := export.NewFetcher(client, "exports", zap.NewNop())
		_, err := f.LatestCSV(context.Background())

		assert.ErrorContains(t, err, "access denied")
	})
}

func TestReadRows(t *testing.T) {
	t.Run("HeaderKeyed", func(t *testing.T) {
		content := []byte("event_id,event_name,total_tickets\n7,Concert,3\n8,Fair,1\n")

		rows, err := export.ReadRows(content)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "7", rows[0]["event_id"])
		assert.Equal(t, "Concert", rows[0]["event_name"])
		assert.Equal(t, "1", rows[1]["total_tickets"])
	})

	t.Run("RaggedRowTolerated", func(t *testing.T) {
		content := []byte("event_id,event_name\n7\n")

		rows, err := export.ReadRows(content)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "7", rows[0]["event_id"])
		assert.Equal(t, "", rows[0]["event_name"])
	})

	t.Run("EmptyContent", func(t *testing.T) {
		rows, err := export.ReadRows(nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		rows, err := export.ReadRows([]byte("event_id,event_name\n"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
