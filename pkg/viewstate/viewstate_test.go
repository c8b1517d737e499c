package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name, desc, category string
	tags                 []string
}

func (e entry) CategoryKey() string { return e.category }

func (e entry) SearchFields() []string {
	fields := []string{e.name, e.desc, e.category}
	return append(fields, e.tags...)
}

var catalog = []entry{
	{name: "PromptPad", desc: "prompt workspace", category: "Writing", tags: []string{"prompts"}},
	{name: "PixelForge", desc: "image studio", category: "Image", tags: []string{"art", "diffusion"}},
	{name: "VoiceLoom", desc: "voice cloning", category: "Audio"},
	{name: "CodePilot", desc: "pair programmer", category: "Developer", tags: []string{"code"}},
}

func TestCriteriaMatches(t *testing.T) {
	cases := []struct {
		name string
		crit Criteria
		want []string
	}{
		{"all", Criteria{Category: CategoryAll}, []string{"PromptPad", "PixelForge", "VoiceLoom", "CodePilot"}},
		{"empty category means all", Criteria{}, []string{"PromptPad", "PixelForge", "VoiceLoom", "CodePilot"}},
		{"category equality", Criteria{Category: "Image"}, []string{"PixelForge"}},
		{"search name", Criteria{Category: CategoryAll, Search: "pixel"}, []string{"PixelForge"}},
		{"search is case-insensitive", Criteria{Category: CategoryAll, Search: "VOICE"}, []string{"VoiceLoom"}},
		{"search matches tags", Criteria{Category: CategoryAll, Search: "diffusion"}, []string{"PixelForge"}},
		{"category and search combine", Criteria{Category: "Writing", Search: "image"}, nil},
		{"no match", Criteria{Category: CategoryAll, Search: "spreadsheet"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(catalog, tc.crit)
			var names []string
			for _, e := range got {
				names = append(names, e.name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestFilterIsSubsetInSourceOrder(t *testing.T) {
	crit := Criteria{Category: CategoryAll, Search: "o"}
	got := Filter(catalog, crit)
	require.LessOrEqual(t, len(got), len(catalog))
	// every element satisfies the predicate and source order is preserved
	lastIdx := -1
	for _, e := range got {
		assert.True(t, crit.Matches(e))
		idx := -1
		for i, src := range catalog {
			if src.name == e.name {
				idx = i
			}
		}
		require.Greater(t, idx, lastIdx, "order not preserved")
		lastIdx = idx
	}
}

func TestCollectionLoadsAndFilters(t *testing.T) {
	c := NewCollection(func(ctx context.Context, crit Criteria) ([]entry, error) {
		return catalog, nil
	})
	c.SetCriteria(context.Background(), Criteria{Category: "Audio"})
	items, loading, err := c.Snapshot()
	require.NoError(t, err)
	assert.False(t, loading)
	require.Len(t, items, 1)
	assert.Equal(t, "VoiceLoom", items[0].name)
}

func TestCollectionErrorBoundary(t *testing.T) {
	calls := 0
	c := NewCollection(func(ctx context.Context, crit Criteria) ([]entry, error) {
		calls++
		if calls == 1 {
			return catalog, nil
		}
		return nil, errors.New("backend down")
	})
	ctx := context.Background()
	c.SetCriteria(ctx, Criteria{Category: CategoryAll})
	require.NotEmpty(t, c.Visible())

	// failure sets the error and hides content; only one view renders
	c.SetCriteria(ctx, Criteria{Category: "Image"})
	items, loading, err := c.Snapshot()
	assert.Error(t, err)
	assert.False(t, loading)
	assert.Empty(t, items)
}

func TestCollectionReloadClearsError(t *testing.T) {
	fail := true
	c := NewCollection(func(ctx context.Context, crit Criteria) ([]entry, error) {
		if fail {
			return nil, errors.New("backend down")
		}
		return catalog, nil
	})
	ctx := context.Background()
	c.SetCriteria(ctx, Criteria{Category: CategoryAll})
	require.Error(t, func() error { _, _, err := c.Snapshot(); return err }())

	fail = false
	c.Reload(ctx)
	items, _, err := c.Snapshot()
	require.NoError(t, err)
	assert.Len(t, items, len(catalog))
}

// A slow fetch for old criteria must not overwrite results that belong to
// newer criteria, regardless of arrival order.
func TestCollectionStaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	c := NewCollection(func(ctx context.Context, crit Criteria) ([]entry, error) {
		if crit.Search == "slow" {
			<-release
			return []entry{{name: "STALE", category: "Writing"}}, nil
		}
		return catalog, nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SetCriteria(ctx, Criteria{Category: CategoryAll, Search: "slow"})
	}()

	// The newer request begins and completes while the old one is blocked.
	// Wait until the slow request has registered its criteria.
	for c.Criteria().Search != "slow" {
		time.Sleep(time.Millisecond)
	}
	c.SetCriteria(ctx, Criteria{Category: CategoryAll})
	close(release)
	wg.Wait()

	items, loading, err := c.Snapshot()
	require.NoError(t, err)
	assert.False(t, loading)
	require.Len(t, items, len(catalog))
	for _, e := range items {
		assert.NotEqual(t, "STALE", e.name)
	}
}
