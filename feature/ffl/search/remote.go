package search

import (
	"context"
	"fmt"

	"ffl-directory/feature/ffl/models"
	"ffl-directory/feature/ffl/normalize"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Directory is an external directory that can be queried by free text.
type Directory interface {
	Lookup(ctx context.Context, query, state string, limit int) ([]models.FflRecord, error)
}

// RemoteSource translates external directory hits into ranked results.
// Identical concurrent requests share one upstream call.
type RemoteSource struct {
	directory Directory
	group     singleflight.Group
}

// NewRemoteSource creates a source over an external directory.
func NewRemoteSource(directory Directory) *RemoteSource {
	return &RemoteSource{directory: directory}
}

// Find queries the external directory.
func (s *RemoteSource) Find(ctx context.Context, req Request) ([]models.SearchResult, error) {
	flightKey := fmt.Sprintf("%s|%s|%s|%d", req.Type, req.State, req.Query, req.Limit)
	v, err, _ := s.group.Do(flightKey, func() (any, error) {
		return s.directory.Lookup(ctx, req.Query, req.State, req.Limit)
	})
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}

	var key string
	if req.Type != TypeName && normalize.LooksLikeLicense(req.Query) {
		key = normalize.CanonicalLicense(req.Query)
	}

	records := v.([]models.FflRecord)
	kept := make([]models.FflRecord, 0, len(records))
	var exact *models.FflRecord
	for _, r := range records {
		if req.State != "" && r.Address.State != req.State {
			continue
		}
		if key != "" && exact == nil && r.LicenseNumber == key {
			hit := r
			exact = &hit
			continue
		}
		kept = append(kept, r)
	}
	return Rank(req.Query, req.Type, exact, kept, models.SourceRemote, req.Limit), nil
}

// Fallback consults Secondary only when Primary finds nothing.
// Secondary failures are logged and degrade to an empty result.
type Fallback struct {
	Primary   Source
	Secondary Source
	Logger    *zap.Logger
}

// Find implements Source.
func (f *Fallback) Find(ctx context.Context, req Request) ([]models.SearchResult, error) {
	results, err := f.Primary.Find(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 || f.Secondary == nil {
		return results, nil
	}

	fallback, err := f.Secondary.Find(ctx, req)
	if err != nil {
		if f.Logger != nil {
			f.Logger.Warn("Fallback search failed",
				zap.String("query", req.Query),
				zap.String("type", string(req.Type)),
				zap.Error(err))
		}
		return []models.SearchResult{}, nil
	}
	return fallback, nil
}
