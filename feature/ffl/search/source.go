package search

import (
	"context"
	"fmt"

	"ffl-directory/feature/ffl/models"
	"ffl-directory/feature/ffl/normalize"
	"ffl-directory/feature/ffl/store"

	"golang.org/x/sync/errgroup"
)

// Source answers a validated search request with ranked results.
type Source interface {
	Find(ctx context.Context, req Request) ([]models.SearchResult, error)
}

// Reader is the read side of the store used by LocalSource.
type Reader interface {
	GetByLicense(ctx context.Context, license string) (*models.FflRecord, error)
	Scan(ctx context.Context, filter store.ScanFilter, limit int) ([]models.FflRecord, error)
}

// LocalSource searches the directory store.
type LocalSource struct {
	reader Reader
}

// NewLocalSource creates a source over the store read side.
func NewLocalSource(reader Reader) *LocalSource {
	return &LocalSource{reader: reader}
}

// Find runs the exact license lookup and the partial scan the request calls for.
// For TypeFfl an exact hit is the only result; for TypeBoth both legs run concurrently.
func (s *LocalSource) Find(ctx context.Context, req Request) ([]models.SearchResult, error) {
	text := req.Query
	if req.Type == TypeFfl {
		if c := normalize.CanonicalLicense(text); c != "" {
			text = c
		}
	}
	licenseQuery := req.Type != TypeName && normalize.LooksLikeLicense(req.Query)

	if req.Type == TypeFfl && licenseQuery {
		exact, err := s.lookup(ctx, req)
		if err != nil {
			return nil, err
		}
		if exact != nil {
			return Rank(text, req.Type, exact, nil, models.SourceLocal, req.Limit), nil
		}
	}

	var (
		exact   *models.FflRecord
		partial []models.FflRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	if req.Type == TypeBoth && licenseQuery {
		g.Go(func() error {
			var err error
			exact, err = s.lookup(gctx, req)
			return err
		})
	}
	g.Go(func() error {
		filter := store.ScanFilter{Text: text, Fields: req.Type.fields(), State: req.State}
		var err error
		// One extra row covers the exact hit showing up in the scan as well.
		partial, err = s.reader.Scan(gctx, filter, req.Limit+1)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Rank(text, req.Type, exact, partial, models.SourceLocal, req.Limit), nil
}

// lookup fetches the canonical license and applies the state predicate.
func (s *LocalSource) lookup(ctx context.Context, req Request) (*models.FflRecord, error) {
	rec, err := s.reader.GetByLicense(ctx, normalize.CanonicalLicense(req.Query))
	if err != nil {
		return nil, fmt.Errorf("license lookup failed: %w", err)
	}
	if rec == nil || (req.State != "" && rec.Address.State != req.State) {
		return nil, nil
	}
	return rec, nil
}
