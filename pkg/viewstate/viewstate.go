// Package viewstate implements the shared list-page composition pattern:
// source items fetched by criteria, a pure client-side filter deriving the
// visible list, and a generation counter that keeps a stale in-flight fetch
// from overwriting results for newer criteria.
package viewstate

import (
	"context"
	"strings"
	"sync"
)

// CategoryAll matches every category.
const CategoryAll = "All"

// Criteria is the filter state a list page holds.
type Criteria struct {
	Category string
	Search   string
}

// Item is anything the filter can inspect.
type Item interface {
	CategoryKey() string
	SearchFields() []string
}

// Matches applies the uniform filtering policy: category is All/empty or
// equal, AND search is empty or a case-insensitive substring of at least one
// searchable field.
func (c Criteria) Matches(it Item) bool {
	if c.Category != "" && c.Category != CategoryAll && it.CategoryKey() != c.Category {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(c.Search))
	if search == "" {
		return true
	}
	for _, f := range it.SearchFields() {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// Filter derives the visible list. Matches preserve source order; there is
// no ranking.
func Filter[T Item](items []T, c Criteria) []T {
	var out []T
	for _, it := range items {
		if c.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Fetcher loads source items for the given criteria.
type Fetcher[T Item] func(ctx context.Context, c Criteria) ([]T, error)

// Collection composes {source, criteria, loading, error} for one list page.
// Exactly one of loading/error/content is observable at a time: entering
// loading clears a prior error, and a failed fetch hides content behind the
// error state without discarding the criteria.
type Collection[T Item] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	criteria Criteria
	source   []T
	loading  bool
	err      error
	gen      uint64
}

func NewCollection[T Item](fetch Fetcher[T]) *Collection[T] {
	return &Collection[T]{fetch: fetch, criteria: Criteria{Category: CategoryAll}}
}

// SetCriteria records the new criteria and runs the fetch for them. Results
// are delivered only if no newer criteria took over while the fetch was in
// flight (last-request-wins by criteria identity, not arrival order).
func (c *Collection[T]) SetCriteria(ctx context.Context, crit Criteria) {
	gen := c.begin(crit)
	items, err := c.fetch(ctx, crit)
	c.deliver(gen, items, err)
}

// Reload re-runs the fetch for the current criteria (the retry action).
func (c *Collection[T]) Reload(ctx context.Context) {
	c.mu.Lock()
	crit := c.criteria
	c.mu.Unlock()
	c.SetCriteria(ctx, crit)
}

func (c *Collection[T]) begin(crit Criteria) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.criteria = crit
	c.loading = true
	c.err = nil
	return c.gen
}

func (c *Collection[T]) deliver(gen uint64, items []T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer request superseded this one; drop the stale result.
		return
	}
	c.loading = false
	if err != nil {
		c.err = err
		return
	}
	c.source = items
	c.err = nil
}

// Visible recomputes the filtered list from the current source and criteria.
// While loading or in error, nothing is visible: the page renders exactly
// one of the loading, error or content views.
func (c *Collection[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading || c.err != nil {
		return nil
	}
	return Filter(c.source, c.criteria)
}

// Snapshot returns the page's observable state in one consistent read.
func (c *Collection[T]) Snapshot() (items []T, loading bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loading && c.err == nil {
		items = Filter(c.source, c.criteria)
	}
	return items, c.loading, c.err
}

// Criteria returns the currently applied filter criteria.
func (c *Collection[T]) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}
