package description

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"authorsite/internal/book"
	"authorsite/internal/catalog"
)

type datasetRow struct {
	Row struct {
		Title       string `json:"title"`
		Authors     string `json:"authors"`
		Description string `json:"description"`
	} `json:"row"`
}

type datasetResponse struct {
	Rows []datasetRow `json:"rows"`
}

// DatasetStrategy looks descriptions up in a hosted dataset-rows endpoint,
// matching rows by fuzzy title (and, when present, author). The rows are
// fetched once per process and kept in memory; a failed load just disables
// the strategy.
type DatasetStrategy struct {
	url        string
	token      string
	httpClient *http.Client

	once    sync.Once
	rows    []datasetRow
	loadErr error
}

// NewDatasetStrategy builds the strategy for url. token is an optional
// bearer token for authenticated datasets.
func NewDatasetStrategy(url, token string) *DatasetStrategy {
	return &DatasetStrategy{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *DatasetStrategy) Name() string { return "dataset" }

func (s *DatasetStrategy) Resolve(ctx context.Context, rec book.Record) (string, bool) {
	s.once.Do(func() { s.load(ctx) })
	if s.loadErr != nil {
		return "", false
	}

	title := book.NormalizeTitle(rec.Title)
	for _, row := range s.rows {
		rowTitle := book.NormalizeTitle(row.Row.Title)
		if rowTitle == "" || row.Row.Description == "" {
			continue
		}
		if !catalog.FuzzyMatch(title, rowTitle) && !catalog.FuzzyMatch(rowTitle, title) {
			continue
		}
		if !s.authorMatches(rec.AuthorNames, row.Row.Authors) {
			continue
		}
		return row.Row.Description, true
	}
	return "", false
}

// authorMatches accepts the row unless both sides name authors and none of
// the record's authors fuzzily appear in the row's author field.
func (s *DatasetStrategy) authorMatches(names []string, rowAuthors string) bool {
	if rowAuthors == "" || len(names) == 0 {
		return true
	}
	rowLower := strings.ToLower(rowAuthors)
	for _, name := range names {
		if catalog.FuzzyMatch(strings.ToLower(name), rowLower) {
			return true
		}
	}
	return false
}

func (s *DatasetStrategy) load(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		s.loadErr = err
		return
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.loadErr = err
		log.Printf("description: dataset load failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.loadErr = fmt.Errorf("dataset returned status %d", resp.StatusCode)
		log.Printf("description: %v", s.loadErr)
		return
	}

	var parsed datasetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		s.loadErr = fmt.Errorf("decoding dataset: %w", err)
		log.Printf("description: %v", s.loadErr)
		return
	}
	s.rows = parsed.Rows
}
