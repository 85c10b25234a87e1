package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorsite/internal/book"
)

func sampleBooks() []book.Record {
	return []book.Record{
		{ID: "1", Title: "The Casual Vacancy", FirstPublishYear: 2012,
			Languages: []string{"eng"}, Subjects: []string{"Fiction"}},
		{ID: "2", Title: "The Silkworm", FirstPublishYear: 2014,
			Languages: []string{"eng", "fre"}, Subjects: []string{"Detective and mystery stories"},
			Subtitle: "A Cormoran Strike Novel"},
		{ID: "3", Title: "Harry Potter and the Goblet of Fire", FirstPublishYear: 2000,
			Languages: []string{"eng", "spa"}, Subjects: []string{"Fantasy fiction", "Magic"}},
		{ID: "4", Title: "Harry Potter and the Order of the Phoenix", FirstPublishYear: 2003,
			Languages: []string{"eng"}, Subjects: []string{"Fantasy fiction"}},
	}
}

func TestIngestDeduplicates(t *testing.T) {
	e := NewEngine()
	e.Ingest([]book.Record{
		{Title: "The Casual Vacancy", FirstPublishYear: 2012},
		{Title: "THE CASUAL VACANCY", FirstPublishYear: 2013},
		{Title: "the casual vacancy ", FirstPublishYear: 2014},
	})

	require.Equal(t, 1, e.Len())
	assert.Equal(t, 2012, e.Books()[0].FirstPublishYear, "first occurrence wins")
}

func TestIngestDropsInvalidRecords(t *testing.T) {
	e := NewEngine()
	e.Ingest([]book.Record{
		{Title: "No Year"},
		{Title: "", FirstPublishYear: 2000},
		{Title: "OK", FirstPublishYear: 2000},
		{Title: "A Real Book", FirstPublishYear: 2001},
	})

	require.Equal(t, 1, e.Len())
	assert.Equal(t, "A Real Book", e.Books()[0].Title)
}

func TestIngestDropsVariantEditions(t *testing.T) {
	e := NewEngine()
	e.Ingest([]book.Record{
		{Title: "The Silkworm", FirstPublishYear: 2014},
		{Title: "The Silkworm [Large Print]", FirstPublishYear: 2014},
		{Title: "Harry Potter Box Set", FirstPublishYear: 2007},
		{Title: "The Casual Vacancy Audio CD", FirstPublishYear: 2012},
	})

	require.Equal(t, 1, e.Len())
	assert.Equal(t, "The Silkworm", e.Books()[0].Title)
}

func TestIngestSortOrder(t *testing.T) {
	e := NewEngine()
	e.Ingest(sampleBooks())

	books := e.Books()
	require.Len(t, books, 4)
	for i := 0; i < len(books)-1; i++ {
		a, b := books[i], books[i+1]
		greaterYear := a.FirstPublishYear > b.FirstPublishYear
		sameYearTitleOrder := a.FirstPublishYear == b.FirstPublishYear &&
			book.NormalizeTitle(a.Title) <= book.NormalizeTitle(b.Title)
		assert.True(t, greaterYear || sameYearTitleOrder, "books %d and %d out of order", i, i+1)
	}
	assert.Equal(t, "The Silkworm", books[0].Title)
}

func TestApplyFiltersNoOp(t *testing.T) {
	e := NewEngine()
	e.Ingest(sampleBooks())

	assert.Equal(t, e.Books(), e.ApplyFilters(Filters{}), "empty filters return the full sorted set")
}

func TestApplyFiltersIdempotent(t *testing.T) {
	e := NewEngine()
	e.Ingest(sampleBooks())

	f := Filters{Search: "harry", Language: "eng"}
	first := e.ApplyFilters(f)
	second := e.ApplyFilters(f)
	assert.Equal(t, first, second)
}

func TestApplyFiltersSearch(t *testing.T) {
	e := NewEngine()
	e.Ingest(sampleBooks())

	t.Run("title substring", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Search: "harry potter"})
		assert.Len(t, books, 2)
	})

	t.Run("year in query", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Search: "2012"})
		require.Len(t, books, 1)
		assert.Equal(t, "The Casual Vacancy", books[0].Title)
	})

	t.Run("subtitle match", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Search: "cormoran strike"})
		require.Len(t, books, 1)
		assert.Equal(t, "The Silkworm", books[0].Title)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, e.ApplyFilters(Filters{Search: "zzzzqqqq"}))
	})
}

func TestApplyFiltersLanguageYearGenre(t *testing.T) {
	e := NewEngine()
	e.Ingest(sampleBooks())

	t.Run("language membership", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Language: "spa"})
		require.Len(t, books, 1)
		assert.Equal(t, "Harry Potter and the Goblet of Fire", books[0].Title)
	})

	t.Run("exact year", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Year: "2014"})
		require.Len(t, books, 1)
		assert.Equal(t, "The Silkworm", books[0].Title)
	})

	t.Run("genre through categorization", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Genre: "Fantasy"})
		assert.Len(t, books, 2)
	})

	t.Run("intersection of criteria", func(t *testing.T) {
		books := e.ApplyFilters(Filters{Search: "harry", Year: "2000"})
		require.Len(t, books, 1)
		assert.Equal(t, 2000, books[0].FirstPublishYear)
	})
}

func TestApplyFiltersDoesNotMutate(t *testing.T) {
	e := NewEngine()
	e.Ingest(sampleBooks())

	before := e.Books()
	e.ApplyFilters(Filters{Search: "harry", Genre: "Fantasy"})
	assert.Equal(t, before, e.Books())
}
