package catalog

import "strings"

// fuzzyThreshold is the fraction of query characters that must be matched
// by the subsequence scan. The value and the single-pass semantics are a
// fixed heuristic: they decide which books appear in search results.
const fuzzyThreshold = 0.7

// FuzzyMatch reports whether query loosely matches text. Case-folded
// substring containment accepts immediately; otherwise a single
// left-to-right scan walks text once, advancing a cursor for each query
// character in order, and accepts when at least 70% of the query characters
// were found. There is no backtracking.
func FuzzyMatch(query, text string) bool {
	query = strings.ToLower(query)
	text = strings.ToLower(text)

	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}

	hits := 0
	cursor := 0
	for i := 0; i < len(query); i++ {
		idx := strings.IndexByte(text[cursor:], query[i])
		if idx < 0 {
			cursor = len(text)
			continue
		}
		hits++
		cursor += idx + 1
	}

	return float64(hits)/float64(len(query)) >= fuzzyThreshold
}
