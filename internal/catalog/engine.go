// Package catalog holds the in-memory filter engine over the merged book
// set: ingest, faceting, filtering and search. It never talks to the
// network; the gateway hands it finished records.
package catalog

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"authorsite/internal/book"
)

// excludedTitlePhrases mark variant editions (large print, audio, box sets,
// anthologies) that would duplicate the real work in the catalog.
var excludedTitlePhrases = []string{
	"large print",
	"large type",
	"audio cd",
	"audiobook",
	"audio cassette",
	"cd-rom",
	"box set",
	"boxed set",
	"boxset",
	"collector's edition",
	"deluxe illustrated",
	"omnibus",
	"anthology",
	"sampler",
	"excerpt",
	"abridged",
	"unabridged",
	"coloring book",
	"postcard",
	"poster book",
	"sticker book",
}

// Filters are the active criteria; empty fields are inactive. Language and
// Year match exactly, Search is fuzzy, Genre goes through categorization.
type Filters struct {
	Search   string
	Language string
	Year     string
	Genre    string
}

// Engine owns the canonical sorted book list. Reads and the refresh-driven
// Ingest can interleave, so access goes through a RWMutex.
type Engine struct {
	mu    sync.RWMutex
	books []book.Record
}

func NewEngine() *Engine {
	return &Engine{}
}

// Ingest replaces the working set: invalid records, excluded variant titles
// and duplicate titles (first occurrence wins) are dropped, the rest is
// sorted by publish year descending with title as the ascending tie-break.
func (e *Engine) Ingest(raw []book.Record) {
	seen := make(map[string]bool, len(raw))
	books := make([]book.Record, 0, len(raw))

	for _, rec := range raw {
		if !rec.Valid() {
			continue
		}
		key := book.NormalizeTitle(rec.Title)
		if len(key) <= 2 || excludedTitle(key) || seen[key] {
			continue
		}
		seen[key] = true
		books = append(books, rec)
	}

	sort.SliceStable(books, func(i, j int) bool {
		if books[i].FirstPublishYear != books[j].FirstPublishYear {
			return books[i].FirstPublishYear > books[j].FirstPublishYear
		}
		return book.NormalizeTitle(books[i].Title) < book.NormalizeTitle(books[j].Title)
	})

	e.mu.Lock()
	e.books = books
	e.mu.Unlock()
}

func excludedTitle(normalized string) bool {
	for _, phrase := range excludedTitlePhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

// Books returns a copy of the working set in its canonical order.
func (e *Engine) Books() []book.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]book.Record, len(e.books))
	copy(out, e.books)
	return out
}

// Len reports the size of the working set.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.books)
}

// ByID finds one record by its assigned ID.
func (e *Engine) ByID(id string) (book.Record, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, rec := range e.books {
		if rec.ID == id {
			return rec, true
		}
	}
	return book.Record{}, false
}

// Facets derives the dropdown contents from the working set.
func (e *Engine) Facets() Facets {
	return computeFacets(e.Books())
}

// ApplyFilters intersects the working set with each active criterion in
// turn. The canonical list is never mutated; the result keeps its order.
func (e *Engine) ApplyFilters(f Filters) []book.Record {
	books := e.Books()

	if query := strings.TrimSpace(f.Search); query != "" {
		books = keep(books, func(rec book.Record) bool {
			return searchMatch(query, rec)
		})
	}

	if f.Language != "" {
		lang := strings.ToLower(f.Language)
		books = keep(books, func(rec book.Record) bool {
			for _, code := range rec.Languages {
				if strings.ToLower(code) == lang {
					return true
				}
			}
			return false
		})
	}

	if f.Year != "" {
		books = keep(books, func(rec book.Record) bool {
			return strconv.Itoa(rec.FirstPublishYear) == f.Year
		})
	}

	if f.Genre != "" {
		books = keep(books, func(rec book.Record) bool {
			for _, subject := range rec.Subjects {
				if genre, ok := CategorizeGenre(subject); ok && genre == f.Genre {
					return true
				}
			}
			return false
		})
	}

	return books
}

// searchMatch accepts a record when the query fuzzily matches the title,
// a subject or the subtitle, or when the publish year appears in the query.
func searchMatch(query string, rec book.Record) bool {
	if FuzzyMatch(query, rec.Title) {
		return true
	}
	if rec.FirstPublishYear > 0 && strings.Contains(query, strconv.Itoa(rec.FirstPublishYear)) {
		return true
	}
	for _, subject := range rec.Subjects {
		if FuzzyMatch(query, subject) {
			return true
		}
	}
	if rec.Subtitle != "" && FuzzyMatch(query, rec.Subtitle) {
		return true
	}
	return false
}

func keep(books []book.Record, match func(book.Record) bool) []book.Record {
	out := books[:0:0]
	for _, rec := range books {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}
