package catalog

import (
	"context"
	"sync/atomic"

	"authorsite/internal/book"
)

// Fetcher supplies the merged upstream catalog. Implemented by the gateway.
type Fetcher interface {
	FetchMergedCatalog(ctx context.Context, limit int) ([]book.Record, int, error)
}

// Describer resolves a description for a record. Implemented by the
// description resolver; it never fails.
type Describer interface {
	Resolve(ctx context.Context, rec book.Record) string
}

// Service wires the gateway, the filter engine and the description resolver
// together for the HTTP layer.
type Service struct {
	fetcher   Fetcher
	describer Describer
	engine    *Engine
	limit     int

	upstreamTotal atomic.Int64
	loaded        atomic.Bool
}

func NewService(fetcher Fetcher, describer Describer, limit int) *Service {
	return &Service{
		fetcher:   fetcher,
		describer: describer,
		engine:    NewEngine(),
		limit:     limit,
	}
}

// Refresh fetches the merged catalog and replaces the working set.
func (s *Service) Refresh(ctx context.Context) error {
	books, total, err := s.fetcher.FetchMergedCatalog(ctx, s.limit)
	if err != nil {
		return err
	}
	s.engine.Ingest(books)
	s.upstreamTotal.Store(int64(total))
	s.loaded.Store(true)
	return nil
}

// Ready reports whether a catalog has been loaded at least once.
func (s *Service) Ready() bool {
	return s.loaded.Load()
}

// List filters the working set and returns the requested page plus the
// filtered total.
func (s *Service) List(f Filters, page, pageSize int) ([]book.Record, int) {
	filtered := s.engine.ApplyFilters(f)
	return Page(filtered, page, pageSize), len(filtered)
}

// Facets derives the dropdown facets from the working set.
func (s *Service) Facets() Facets {
	return s.engine.Facets()
}

// Describe resolves the description for one record by ID.
func (s *Service) Describe(ctx context.Context, id string) (string, error) {
	rec, ok := s.engine.ByID(id)
	if !ok {
		return "", book.ErrNotFound
	}
	return s.describer.Resolve(ctx, rec), nil
}

// Page slices one page out of books with the usual clamping: page numbers
// start at 1, a non-positive or oversized page size falls back to 20.
func Page(books []book.Record, page, pageSize int) []book.Record {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(books) {
		return []book.Record{}
	}
	end := start + pageSize
	if end > len(books) {
		end = len(books)
	}
	return books[start:end]
}
