// Package description resolves book descriptions through an ordered chain
// of strategies: an existing description is used verbatim, then a secondary
// dataset lookup, then a hosted completion call, and finally a deterministic
// template that always produces something.
package description

import (
	"context"
	"strings"
	"sync"

	"authorsite/internal/book"
)

// Strategy is one way of producing a description for a record. ok is false
// when the strategy has nothing usable; the resolver then moves on.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, rec book.Record) (text string, ok bool)
}

// Resolver runs the strategy chain. Resolve never fails: the terminal
// template strategy always returns a sentence.
type Resolver struct {
	strategies []Strategy

	mu   sync.Mutex
	memo map[string]string
}

// NewResolver builds a resolver ending in the template strategy for
// authorName. Extra strategies run first, in the order given.
func NewResolver(authorName string, extra ...Strategy) *Resolver {
	strategies := append([]Strategy{}, extra...)
	strategies = append(strategies, NewTemplateStrategy(authorName))
	return &Resolver{
		strategies: strategies,
		memo:       make(map[string]string),
	}
}

// Resolve returns the record's description if it already has one, otherwise
// the first strategy result. Results are memoized per normalized title.
func (r *Resolver) Resolve(ctx context.Context, rec book.Record) string {
	if text := strings.TrimSpace(rec.Description); text != "" {
		return text
	}

	key := book.NormalizeTitle(rec.Title)
	r.mu.Lock()
	if text, ok := r.memo[key]; ok {
		r.mu.Unlock()
		return text
	}
	r.mu.Unlock()

	var text string
	for _, s := range r.strategies {
		if t, ok := s.Resolve(ctx, rec); ok && strings.TrimSpace(t) != "" {
			text = strings.TrimSpace(t)
			break
		}
	}

	r.mu.Lock()
	r.memo[key] = text
	r.mu.Unlock()
	return text
}
