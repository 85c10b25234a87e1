package description

import (
	"context"
	"fmt"
	"strings"

	"authorsite/internal/book"
)

// seriesRule maps a title keyword to a canned series sentence.
type seriesRule struct {
	keyword  string
	sentence string
}

// TemplateStrategy synthesizes a description from a fixed rule cascade:
// primary series keyword in the title, then secondary series keywords,
// then genre keywords in the subjects, then a generic author sentence.
// It always succeeds and terminates the resolver chain.
type TemplateStrategy struct {
	authorName     string
	primarySeries  []seriesRule
	secondarySeries []seriesRule
}

func NewTemplateStrategy(authorName string) *TemplateStrategy {
	return &TemplateStrategy{
		authorName: authorName,
		primarySeries: []seriesRule{
			{"harry potter", "Part of the beloved Harry Potter series, this magical adventure follows the young wizard through the halls of Hogwarts and beyond."},
			{"fantastic beasts", "Set in the wizarding world decades before Harry Potter, this story follows magizoologist Newt Scamander and the creatures in his care."},
			{"quidditch", "A playful companion volume from the wizarding world, chronicling the history and rules of its most famous sport."},
			{"beedle the bard", "A collection of wizarding fairy tales from the world of Harry Potter, complete with commentary from Albus Dumbledore."},
		},
		secondarySeries: []seriesRule{
			{"cormoran strike", "A gripping crime novel featuring private detective Cormoran Strike and his partner Robin Ellacott as they untangle a case darker than it first appears."},
			{"cuckoo's calling", "A gripping crime novel featuring private detective Cormoran Strike and his partner Robin Ellacott as they untangle a case darker than it first appears."},
			{"silkworm", "A gripping crime novel featuring private detective Cormoran Strike and his partner Robin Ellacott as they untangle a case darker than it first appears."},
			{"career of evil", "A gripping crime novel featuring private detective Cormoran Strike and his partner Robin Ellacott as they untangle a case darker than it first appears."},
			{"lethal white", "A gripping crime novel featuring private detective Cormoran Strike and his partner Robin Ellacott as they untangle a case darker than it first appears."},
			{"troubled blood", "A gripping crime novel featuring private detective Cormoran Strike and his partner Robin Ellacott as they untangle a case darker than it first appears."},
		},
	}
}

func (s *TemplateStrategy) Name() string { return "template" }

func (s *TemplateStrategy) Resolve(_ context.Context, rec book.Record) (string, bool) {
	title := strings.ToLower(rec.Title)

	for _, rule := range s.primarySeries {
		if strings.Contains(title, rule.keyword) {
			return rule.sentence, true
		}
	}
	for _, rule := range s.secondarySeries {
		if strings.Contains(title, rule.keyword) {
			return rule.sentence, true
		}
	}

	if sentence, ok := s.fromSubjects(rec.Subjects); ok {
		return sentence, true
	}

	return fmt.Sprintf("A celebrated work by %s, cherished by readers around the world for its rich storytelling and unforgettable characters.", s.authorName), true
}

func (s *TemplateStrategy) fromSubjects(subjects []string) (string, bool) {
	var fantasy, mystery, children bool
	for _, subject := range subjects {
		lower := strings.ToLower(subject)
		switch {
		case strings.Contains(lower, "fantasy") || strings.Contains(lower, "magic"):
			fantasy = true
		case strings.Contains(lower, "mystery") || strings.Contains(lower, "crime") || strings.Contains(lower, "detective"):
			mystery = true
		case strings.Contains(lower, "young adult") || strings.Contains(lower, "children"):
			children = true
		}
	}

	switch {
	case fantasy:
		return fmt.Sprintf("An enchanting tale of magic and wonder from %s, where the ordinary world gives way to the extraordinary.", s.authorName), true
	case mystery:
		return fmt.Sprintf("A suspenseful mystery from %s that keeps its secrets close until the very last page.", s.authorName), true
	case children:
		return fmt.Sprintf("A heartwarming story from %s for younger readers, full of imagination and quiet courage.", s.authorName), true
	}
	return "", false
}
