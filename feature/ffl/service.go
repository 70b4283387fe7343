package ffl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ffl-directory/core/reconcile"
	"ffl-directory/core/storage"
	"ffl-directory/feature/ffl/audit"
	"ffl-directory/feature/ffl/directory"
	"ffl-directory/feature/ffl/models"
	"ffl-directory/feature/ffl/normalize"
	fflreconcile "ffl-directory/feature/ffl/reconcile"
	"ffl-directory/feature/ffl/search"
	"ffl-directory/feature/ffl/store"
	"ffl-directory/feature/ffl/upload"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the full store contract the service needs.
type Store interface {
	store.Gateway
	store.Serializer
}

// Service is the directory entry point: syncs, searches and lookups.
type Service struct {
	store  Store
	engine *search.Engine
	audit  audit.Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new directory service. sink may be nil.
func NewService(st Store, engine *search.Engine, sink audit.Sink, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		engine: engine,
		audit:  sink,
		logger: logger,
		now:    time.Now,
	}
}

// Options gathers what Wire needs besides the database.
type Options struct {
	Sync      SyncConfig
	Search    search.Config
	Directory directory.Config
	Storage   storage.Client
	Bucket    string
}

// Wire builds a service over db: local search with the optional directory fallback,
// and audit to the log plus object storage when configured.
func Wire(db *gorm.DB, opts Options, logger *zap.Logger) *Service {
	st := store.New(db)

	var source search.Source = search.NewLocalSource(st)
	if opts.Directory.Enabled {
		source = &search.Fallback{
			Primary:   source,
			Secondary: search.NewRemoteSource(directory.New(opts.Directory)),
			Logger:    logger,
		}
	}

	sinks := audit.Multi{audit.LogSink{Logger: logger}}
	if opts.Sync.AuditToStorage && opts.Storage != nil {
		sinks = append(sinks, audit.NewStorageSink(opts.Storage, opts.Bucket, opts.Sync.prefix()))
	}

	return NewService(st, search.NewEngine(source, opts.Search), sinks, logger)
}

// SyncFile decodes an uploaded file and syncs its rows.
func (s *Service) SyncFile(ctx context.Context, name string, r io.Reader, actor string) (*models.SyncResult, error) {
	rows, err := upload.Decode(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}
	return s.sync(ctx, rows, actor, name)
}

// SyncFromBatch normalizes, reconciles and applies one upload.
//
// Data problems never fail the call; they are reported in SyncResult.Errors. The only
// failure is an unavailable store, in which case nothing was written and no result is
// returned. Concurrent calls are applied one after the other.
func (s *Service) SyncFromBatch(ctx context.Context, rows []models.RawRow, actor string) (*models.SyncResult, error) {
	return s.sync(ctx, rows, actor, "")
}

func (s *Service) sync(ctx context.Context, rows []models.RawRow, actor, source string) (*models.SyncResult, error) {
	started := s.now()
	records, rowErrs := normalize.NormalizeBatch(rows)

	var plan *reconcile.Plan[models.FflRecord]
	err := s.store.Serialize(ctx, func(gw store.Gateway) error {
		p, err := reconcile.ReconcileWithPlan[models.FflRecord](ctx, fflreconcile.Adapter{}, gw, records, rowErrs, len(rows))
		if err != nil {
			return err
		}
		if _, err := reconcile.ApplyPlan[models.FflRecord](ctx, gw, p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		s.logger.Error("Directory sync failed", zap.String("actor", actor), zap.Int("rows", len(rows)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	result := &models.SyncResult{
		TotalProcessed: plan.Summary.TotalProcessed,
		Added:          plan.Summary.Added,
		Updated:        plan.Summary.Updated,
		Unchanged:      plan.Summary.Unchanged,
		Errors:         plan.ErrorStrings(),
		SyncedAt:       s.now().UTC(),
	}

	s.logger.Info("Directory sync completed",
		zap.String("actor", actor),
		zap.Int("total", result.TotalProcessed),
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", s.now().Sub(started)))

	if s.audit != nil {
		event := audit.Event{Actor: actor, Source: source, Result: *result, RecordedAt: result.SyncedAt}
		if err := s.audit.Record(ctx, event); err != nil {
			s.logger.Warn("Failed to record sync audit event", zap.String("actor", actor), zap.Error(err))
		}
	}

	return result, nil
}

// PreviewFile classifies an uploaded file against the current store without writing.
func (s *Service) PreviewFile(ctx context.Context, name string, r io.Reader) (*models.SyncResult, error) {
	rows, err := upload.Decode(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	records, rowErrs := normalize.NormalizeBatch(rows)
	plan, err := reconcile.ReconcileWithPlan[models.FflRecord](ctx, fflreconcile.Adapter{}, s.store, records, rowErrs, len(rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return &models.SyncResult{
		TotalProcessed: plan.Summary.TotalProcessed,
		Added:          plan.Summary.Added,
		Updated:        plan.Summary.Updated,
		Unchanged:      plan.Summary.Unchanged,
		Errors:         plan.ErrorStrings(),
	}, nil
}

// Search answers a directory query.
func (s *Service) Search(ctx context.Context, query string, opts search.Options) ([]models.SearchResult, error) {
	results, err := s.engine.Search(ctx, query, opts)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return results, nil
}

// GetByLicense returns one directory entry. The license may use any punctuation.
func (s *Service) GetByLicense(ctx context.Context, license string) (*models.FflRecord, error) {
	canonical := normalize.CanonicalLicense(license)
	if !normalize.ValidLicense(canonical) {
		return nil, fmt.Errorf("%w: malformed license number %q", ErrInvalidQuery, license)
	}

	rec, err := s.store.GetByLicense(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, canonical)
	}
	return rec, nil
}
