package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"ffl-directory/core/storage"
	"ffl-directory/feature/ffl/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// DefaultPrefix is the object prefix sync events are written under.
const DefaultPrefix = "audit/ffl-sync"

// Event records one completed sync.
type Event struct {
	Actor      string            `json:"actor"`
	Source     string            `json:"source"`
	Result     models.SyncResult `json:"result"`
	RecordedAt time.Time         `json:"recordedAt"`
}

// Sink receives sync events.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// LogSink writes events to the application log.
type LogSink struct {
	Logger *zap.Logger
}

// Record implements Sink.
func (s LogSink) Record(_ context.Context, e Event) error {
	s.Logger.Info("Directory sync recorded",
		zap.String("actor", e.Actor),
		zap.String("source", e.Source),
		zap.Int("total", e.Result.TotalProcessed),
		zap.Int("added", e.Result.Added),
		zap.Int("updated", e.Result.Updated),
		zap.Int("unchanged", e.Result.Unchanged),
		zap.Int("errors", len(e.Result.Errors)),
		zap.Time("synced_at", e.Result.SyncedAt))
	return nil
}

// StorageSink writes every event as a JSON object to the bucket.
type StorageSink struct {
	client storage.Client
	bucket string
	prefix string
}

// NewStorageSink creates a sink writing under prefix in bucket.
func NewStorageSink(client storage.Client, bucket, prefix string) *StorageSink {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &StorageSink{client: client, bucket: bucket, prefix: prefix}
}

// Record implements Sink. Objects are named <prefix>/<yyyy>/<mm>/<dd>/<uuid>.json.
func (s *StorageSink) Record(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}

	at := e.RecordedAt.UTC()
	key := path.Join(s.prefix, at.Format("2006/01/02"), uuid.NewString()+".json")
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to write audit event %s: %w", key, err)
	}
	return nil
}

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

// Record implements Sink.
func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
