package catalog

import (
	"sort"
	"strings"

	"authorsite/internal/book"
)

// languageNames maps upstream MARC-style language codes to display names.
// Unknown codes fall back to the capitalized raw code.
var languageNames = map[string]string{
	"eng": "English",
	"fre": "French",
	"ger": "German",
	"spa": "Spanish",
	"ita": "Italian",
	"por": "Portuguese",
	"dut": "Dutch",
	"rus": "Russian",
	"jpn": "Japanese",
	"chi": "Chinese",
	"kor": "Korean",
	"ara": "Arabic",
	"heb": "Hebrew",
	"hin": "Hindi",
	"swe": "Swedish",
	"nor": "Norwegian",
	"dan": "Danish",
	"fin": "Finnish",
	"pol": "Polish",
	"cze": "Czech",
	"slo": "Slovak",
	"hun": "Hungarian",
	"gre": "Greek",
	"tur": "Turkish",
	"tha": "Thai",
	"vie": "Vietnamese",
	"ukr": "Ukrainian",
	"rum": "Romanian",
	"bul": "Bulgarian",
	"hrv": "Croatian",
	"cat": "Catalan",
	"lat": "Latin",
	"ice": "Icelandic",
	"wel": "Welsh",
	"ind": "Indonesian",
	"per": "Persian",
}

// Language is one language facet entry: the raw filter code plus its
// display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DecadeGroup buckets the publish years of one decade, newest years first.
type DecadeGroup struct {
	Decade int   `json:"decade"`
	Years  []int `json:"years"`
}

// Facets are the dropdown contents derived from the current book set.
type Facets struct {
	Languages []Language    `json:"languages"`
	Decades   []DecadeGroup `json:"decades"`
	Genres    []string      `json:"genres"`
}

// LanguageName resolves a language code to its display name.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1]) + strings.ToLower(code[1:])
}

func computeFacets(books []book.Record) Facets {
	langSeen := make(map[string]bool)
	yearSeen := make(map[int]bool)
	genreSeen := make(map[string]bool)

	for _, rec := range books {
		for _, code := range rec.Languages {
			langSeen[strings.ToLower(code)] = true
		}
		if rec.FirstPublishYear > 0 {
			yearSeen[rec.FirstPublishYear] = true
		}
		for _, subject := range rec.Subjects {
			if genre, ok := CategorizeGenre(subject); ok {
				genreSeen[genre] = true
			}
		}
	}

	languages := make([]Language, 0, len(langSeen))
	for code := range langSeen {
		languages = append(languages, Language{Code: code, Name: LanguageName(code)})
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i].Name < languages[j].Name })

	genres := make([]string, 0, len(genreSeen))
	for genre := range genreSeen {
		genres = append(genres, genre)
	}
	sort.Strings(genres)

	return Facets{
		Languages: languages,
		Decades:   groupByDecade(yearSeen),
		Genres:    genres,
	}
}

// groupByDecade buckets years via floor division by ten; decades and the
// years inside each are sorted descending.
func groupByDecade(yearSeen map[int]bool) []DecadeGroup {
	byDecade := make(map[int][]int)
	for year := range yearSeen {
		decade := year / 10 * 10
		byDecade[decade] = append(byDecade[decade], year)
	}

	decades := make([]int, 0, len(byDecade))
	for decade := range byDecade {
		decades = append(decades, decade)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(decades)))

	groups := make([]DecadeGroup, 0, len(decades))
	for _, decade := range decades {
		years := byDecade[decade]
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		groups = append(groups, DecadeGroup{Decade: decade, Years: years})
	}
	return groups
}
