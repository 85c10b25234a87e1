package book

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a book is not found in the working set.
var ErrNotFound = errors.New("book not found")

// coverBaseURL is where Open Library hosts cover images.
const coverBaseURL = "https://covers.openlibrary.org/b/id"

// Record is a merged catalog entry for one of the author's books.
// It is assembled once per refresh from the works and search endpoints
// and held in memory; there is no persistence behind it.
type Record struct {
	ID               string   `json:"id"`
	Key              string   `json:"key,omitempty"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Description      string   `json:"description,omitempty"`
	CoverID          int      `json:"cover_id,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	EditionCount     int      `json:"edition_count,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	Publishers       []string `json:"publishers,omitempty"`
	ISBNs            []string `json:"isbns,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	AuthorKeys       []string `json:"author_keys,omitempty"`
	AuthorNames      []string `json:"author_names,omitempty"`
}

// NormalizeTitle produces the de-duplication key: titles are compared
// lower-cased and trimmed everywhere in the pipeline.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Valid reports whether the record is complete enough to appear in the
// catalog: a usable title and a known first publish year.
func (r Record) Valid() bool {
	return len(strings.TrimSpace(r.Title)) > 2 && r.FirstPublishYear > 0
}

// CoverURL builds the large cover image URL, or "" when no cover is known.
func (r Record) CoverURL() string {
	if r.CoverID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/%d-L.jpg", coverBaseURL, r.CoverID)
}
