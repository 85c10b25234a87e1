package catalog

import (
	"strings"
	"unicode"
)

type genreMapping struct {
	keyword  string
	category string
}

// genreTable maps raw subject keywords to display categories. Order
// matters: the first matching entry wins, for exact and substring matches
// alike, so more specific keywords sit above the generic ones.
var genreTable = []genreMapping{
	{"fantasy fiction", "Fantasy"},
	{"juvenile fantasy", "Fantasy"},
	{"epic fantasy", "Fantasy"},
	{"urban fantasy", "Fantasy"},
	{"fantasy", "Fantasy"},
	{"wizards", "Fantasy"},
	{"witches", "Fantasy"},
	{"magic", "Fantasy"},
	{"dragons", "Fantasy"},
	{"supernatural", "Fantasy"},
	{"detective and mystery stories", "Mystery"},
	{"mystery fiction", "Mystery"},
	{"mystery and detective stories", "Mystery"},
	{"private investigators", "Mystery"},
	{"detective", "Mystery"},
	{"mystery", "Mystery"},
	{"crime fiction", "Crime"},
	{"murder", "Crime"},
	{"crime", "Crime"},
	{"thriller", "Thriller"},
	{"suspense", "Thriller"},
	{"science fiction", "Science Fiction"},
	{"time travel", "Science Fiction"},
	{"dystopia", "Science Fiction"},
	{"historical fiction", "Historical Fiction"},
	{"romance", "Romance"},
	{"love stories", "Romance"},
	{"horror", "Horror"},
	{"ghost stories", "Horror"},
	{"adventure stories", "Adventure"},
	{"adventure and adventurers", "Adventure"},
	{"adventure", "Adventure"},
	{"young adult fiction", "Young Adult"},
	{"young adult", "Young Adult"},
	{"coming of age", "Young Adult"},
	{"children's stories", "Children's Fiction"},
	{"children's fiction", "Children's Fiction"},
	{"fairy tales", "Children's Fiction"},
	{"schools", "School Stories"},
	{"boarding schools", "School Stories"},
	{"friendship", "Friendship"},
	{"family life", "Family"},
	{"families", "Family"},
	{"orphans", "Orphans"},
	{"good and evil", "Good and Evil"},
	{"social life and customs", "Social Fiction"},
	{"humorous stories", "Humor"},
	{"humor", "Humor"},
	{"short stories", "Short Stories"},
	{"biography", "Biography"},
	{"poetry", "Poetry"},
	{"drama", "Drama"},
	{"fiction", "Fiction"},
}

// excludedSubjectKeywords reject catalog noise rather than genres.
var excludedSubjectKeywords = []string{
	"juvenile",
	"grade",
	"bibliography",
	"accessible book",
	"protected daisy",
	"in library",
	"overdrive",
	"large type",
	"large print",
	"translations",
	"specimens",
	"textbooks",
	"study guides",
	"reading level",
	"awards",
	"new york times",
	"audiobook",
}

// CategorizeGenre maps a raw upstream subject string to a display genre.
// ok is false for subjects that are catalog noise rather than a usable
// category.
func CategorizeGenre(subject string) (string, bool) {
	subject = strings.TrimSpace(subject)
	if subject == "" || len(subject) > 60 {
		return "", false
	}
	if strings.Contains(subject, "--") || strings.ContainsAny(subject, "()") {
		return "", false
	}
	if unicode.IsDigit(rune(subject[0])) {
		return "", false
	}

	lower := strings.ToLower(subject)
	for _, kw := range excludedSubjectKeywords {
		if strings.Contains(lower, kw) {
			return "", false
		}
	}

	if category, ok := lookupGenre(lower); ok {
		return category, true
	}

	// Compound subjects like "Magic and wizards" match on either half.
	if strings.Contains(lower, " and ") {
		for _, part := range strings.Split(lower, " and ") {
			if category, ok := exactGenre(strings.TrimSpace(part)); ok {
				return category, true
			}
		}
	}

	if idx := strings.Index(lower, " in literature"); idx > 0 {
		return titleCase(subject[:idx]) + " in Literature", true
	}

	if len(subject) <= 40 && !strings.ContainsAny(subject, "/,") {
		return titleCase(subject), true
	}

	return "", false
}

// lookupGenre tries an exact table match, then a substring match, keeping
// table order as the tie-break.
func lookupGenre(lower string) (string, bool) {
	if category, ok := exactGenre(lower); ok {
		return category, true
	}
	for _, m := range genreTable {
		if strings.Contains(lower, m.keyword) {
			return m.category, true
		}
	}
	return "", false
}

func exactGenre(lower string) (string, bool) {
	for _, m := range genreTable {
		if lower == m.keyword {
			return m.category, true
		}
	}
	return "", false
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
