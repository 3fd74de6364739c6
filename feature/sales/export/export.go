package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"sales-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Row is one export line keyed by header column name.
type Row map[string]string

// Export is the raw content of one sales export file.
type Export struct {
	Key          string
	LastModified time.Time
	Content      []byte
}

// Fetcher locates and retrieves the newest sales export in the bucket.
type Fetcher struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewFetcher creates a new export fetcher.
func NewFetcher(client storage.Client, bucket string, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// LatestCSV returns the newest .csv object in the bucket, or nil when the
// bucket holds no export. The suffix match is case-insensitive. Objects
// sharing the maximum last-modified timestamp are tie-broken by the
// lexicographically greatest key so the pick is deterministic.
func (f *Fetcher) LatestCSV(ctx context.Context) (*Export, error) {
	var latest *minio.ObjectInfo

	objects := f.client.ListObjects(ctx, f.bucket, minio.ListObjectsOptions{Recursive: true})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %q: %w", f.bucket, obj.Err)
		}
		if !strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			continue
		}
		if latest == nil || obj.LastModified.After(latest.LastModified) ||
			(obj.LastModified.Equal(latest.LastModified) && obj.Key > latest.Key) {
			o := obj
			latest = &o
		}
	}

	if latest == nil {
		return nil, nil
	}

	f.logger.Info("Found latest export",
		zap.String("key", latest.Key),
		zap.Time("last_modified", latest.LastModified),
	)

	body, err := f.client.GetObject(ctx, f.bucket, latest.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %q: %w", latest.Key, err)
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", latest.Key, err)
	}

	return &Export{
		Key:          latest.Key,
		LastModified: latest.LastModified,
		Content:      content,
	}, nil
}

// ReadRows decodes delimited export content into header-keyed rows.
func ReadRows(content []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	// Upstream exports occasionally carry ragged rows; missing cells read as "".
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
