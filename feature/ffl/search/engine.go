package search

import (
	"context"
	"strings"

	"ffl-directory/feature/ffl/models"
)

// Engine validates queries and delegates to its source.
type Engine struct {
	source Source
	cfg    Config
}

// NewEngine creates a search engine.
func NewEngine(source Source, cfg Config) *Engine {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 200
	}
	return &Engine{source: source, cfg: cfg}
}

// Search answers a query. Options are validated before anything else; a blank query
// then returns an empty result without touching the source.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error) {
	opts, err := opts.resolve(e.cfg)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return []models.SearchResult{}, nil
	}

	results, err := e.source.Find(ctx, Request{Query: q, Type: opts.Type, Limit: opts.Limit, State: opts.State})
	if err != nil {
		return nil, err
	}
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}
