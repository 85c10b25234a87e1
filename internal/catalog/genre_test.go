package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeGenre(t *testing.T) {
	tests := []struct {
		subject string
		want    string
		ok      bool
	}{
		{"Fantasy fiction", "Fantasy", true},
		{"Juvenile fiction, grade 3", "", false},
		{"Detective and mystery stories", "Mystery", true},
		{"Magic", "Fantasy", true},
		{"English Fantasy fiction", "Fantasy", true}, // substring match
		{"Witches", "Fantasy", true},
		{"Crime", "Crime", true},
		{"Bibliography", "", false},
		{"Orphans", "Orphans", true},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, ok := CategorizeGenre(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorizeGenreRejections(t *testing.T) {
	tests := []struct {
		name    string
		subject string
	}{
		{"over 60 characters", strings.Repeat("x", 61)},
		{"double hyphen", "England -- London"},
		{"parenthesis", "Potter, Harry (Fictitious character)"},
		{"leading digit", "20th century"},
		{"juvenile keyword", "Juvenile literature"},
		{"grade keyword", "Reading Grade 4"},
		{"empty", ""},
		{"long free text with comma", "An overly specific subject, with qualifiers, that is rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CategorizeGenre(tt.subject)
			assert.False(t, ok)
		})
	}
}

func TestCategorizeGenreCompound(t *testing.T) {
	t.Run("and-compound retries halves", func(t *testing.T) {
		got, ok := CategorizeGenre("Wizards and witchcraft")
		// substring already catches "wizards" before the split
		assert.True(t, ok)
		assert.Equal(t, "Fantasy", got)
	})

	t.Run("compound with table keyword", func(t *testing.T) {
		got, ok := CategorizeGenre("Boarding schools and pupils")
		assert.True(t, ok)
		assert.Equal(t, "School Stories", got)
	})
}

func TestCategorizeGenreInLiterature(t *testing.T) {
	got, ok := CategorizeGenre("Wolves in literature")
	assert.True(t, ok)
	assert.Equal(t, "Wolves in Literature", got)
}

func TestCategorizeGenreTitleCaseFallback(t *testing.T) {
	t.Run("short free-form subject", func(t *testing.T) {
		got, ok := CategorizeGenre("country houses")
		assert.True(t, ok)
		assert.Equal(t, "Country Houses", got)
	})

	t.Run("slash rejected", func(t *testing.T) {
		_, ok := CategorizeGenre("houses / homes")
		assert.False(t, ok)
	})
}
