// Package memory implements the suggestion engine with an in-memory index.
// It is the default backend for single-instance deployments and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vardhmanmills/storefront/internal/suggest"
)

type entry struct {
	display string
	weight  int
}

// Engine is an in-memory suggestion index keyed by lowercased term.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu    sync.RWMutex
	terms map[string]entry
}

// New creates an empty in-memory suggestion engine.
func New() *Engine {
	return &Engine{terms: make(map[string]entry)}
}

// Index adds terms to the index, bumping the weight of terms it has seen
// before. Blank terms are skipped.
func (e *Engine) Index(_ context.Context, terms ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		existing := e.terms[key]
		e.terms[key] = entry{display: term, weight: existing.weight + 1}
	}
	return nil
}

// Suggest returns terms that start with the prefix, heaviest first, ties
// broken alphabetically. Matching is case-insensitive.
func (e *Engine) Suggest(_ context.Context, prefix string, size int) ([]string, error) {
	if size <= 0 {
		size = suggest.DefaultSize
	}
	if size > suggest.MaxSize {
		size = suggest.MaxSize
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}, nil
	}

	e.mu.RLock()
	matched := make([]entry, 0)
	for key, ent := range e.terms {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, ent)
		}
	}
	e.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].weight != matched[j].weight {
			return matched[i].weight > matched[j].weight
		}
		return matched[i].display < matched[j].display
	})

	if len(matched) > size {
		matched = matched[:size]
	}

	names := make([]string, len(matched))
	for i, ent := range matched {
		names[i] = ent.display
	}
	return names, nil
}
