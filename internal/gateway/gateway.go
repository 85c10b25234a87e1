// Package gateway assembles the author's merged book catalog from the
// Open Library works and search endpoints.
package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"authorsite/internal/book"
	"authorsite/internal/platform/openlibrary"
)

// MergeError reports structurally unusable merge input.
type MergeError struct {
	Reason string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge: %s", e.Reason)
}

type worksClient interface {
	WorksByAuthor(ctx context.Context, authorID string, limit int) ([]openlibrary.Work, error)
	SearchByAuthor(ctx context.Context, authorName string, limit int) ([]openlibrary.SearchHit, error)
	WorkDetail(ctx context.Context, workKey string) (*openlibrary.WorkDetail, error)
}

// Gateway fetches and merges the two upstream views of the author's books.
type Gateway struct {
	client        worksClient
	authorID      string
	authorName    string
	detailTimeout time.Duration
	fetchDetails  bool
}

func New(client worksClient, authorID, authorName string) *Gateway {
	return &Gateway{
		client:        client,
		authorID:      authorID,
		authorName:    authorName,
		detailTimeout: 5 * time.Second,
		fetchDetails:  true,
	}
}

// SetDetailTimeout overrides the per-work detail fetch deadline.
func (g *Gateway) SetDetailTimeout(d time.Duration) {
	if d > 0 {
		g.detailTimeout = d
	}
}

// FetchMergedCatalog issues the works and search calls concurrently, joins
// them, and merges the results, returning the records and the upstream
// total. Partial failure degrades rather than fails: if works (or the merge
// itself) breaks, the search hits are reshaped into records as-is; only when
// the search call also fails does the caller see an error.
func (g *Gateway) FetchMergedCatalog(ctx context.Context, limit int) ([]book.Record, int, error) {
	var (
		works     []openlibrary.Work
		hits      []openlibrary.SearchHit
		worksErr  error
		searchErr error
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		works, worksErr = g.client.WorksByAuthor(ctx, g.authorID, limit)
	}()
	go func() {
		defer wg.Done()
		hits, searchErr = g.client.SearchByAuthor(ctx, g.authorName, limit)
	}()
	wg.Wait()

	if searchErr != nil && worksErr != nil {
		return nil, 0, searchErr
	}

	if worksErr != nil {
		log.Printf("gateway: works fetch failed, serving search-only catalog: %v", worksErr)
		return g.reshapeHits(hits), len(hits), nil
	}
	if searchErr != nil {
		log.Printf("gateway: search fetch failed, merging works only: %v", searchErr)
		hits = nil
	}

	books, err := g.merge(ctx, works, hits)
	if err != nil {
		log.Printf("gateway: merge failed, serving search-only catalog: %v", err)
		if searchErr != nil {
			return nil, 0, err
		}
		return g.reshapeHits(hits), len(hits), nil
	}
	return books, len(books), nil
}

// reshapeHits maps raw search hits straight into records, the last-resort
// shape when the richer merge path is unavailable.
func (g *Gateway) reshapeHits(hits []openlibrary.SearchHit) []book.Record {
	books := make([]book.Record, 0, len(hits))
	for _, hit := range hits {
		books = append(books, recordFromHit(hit))
	}
	return books
}

func recordFromHit(hit openlibrary.SearchHit) book.Record {
	return book.Record{
		ID:               uuid.New().String(),
		Key:              hit.Key,
		Title:            hit.Title,
		Subtitle:         hit.Subtitle,
		CoverID:          hit.CoverID,
		FirstPublishYear: hit.FirstPublishYear,
		EditionCount:     hit.EditionCount,
		Languages:        hit.Languages,
		Publishers:       hit.Publishers,
		ISBNs:            hit.ISBNs,
		Subjects:         hit.Subjects,
		AuthorKeys:       hit.AuthorKeys,
		AuthorNames:      hit.AuthorNames,
	}
}
