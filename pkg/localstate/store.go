// Package localstate persists the two browser-local tool lists (recently
// used, favorited) under fixed keys in a small JSON file. Load errors
// degrade to empty lists; the lists are bounded and de-duplicated by id.
package localstate

import (
	"encoding/json"
	"os"
	"sync"
)

const (
	keyRecentTools   = "recent_tools"
	keyFavoriteTools = "favorite_tools"

	// MaxRecent caps the recently-used list, most recent first.
	MaxRecent = 5
)

type Store struct {
	mu   sync.Mutex
	path string
	data map[string][]string
}

// Open loads the store from path. A missing or unreadable file yields an
// empty store rather than an error.
func Open(path string) *Store {
	s := &Store{path: path, data: map[string][]string{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if json.Unmarshal(raw, &s.data) != nil {
		s.data = map[string][]string{}
	}
	return s
}

// RecentTools returns the recently-used tool ids, most recent first.
func (s *Store) RecentTools() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data[keyRecentTools]...)
}

// PushRecent records a tool selection: moved to the front, de-duplicated,
// capped at MaxRecent.
func (s *Store) PushRecent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := []string{id}
	for _, existing := range s.data[keyRecentTools] {
		if existing != id {
			next = append(next, existing)
		}
	}
	if len(next) > MaxRecent {
		next = next[:MaxRecent]
	}
	s.data[keyRecentTools] = next
	return s.save()
}

// FavoriteTools returns the favorited tool ids.
func (s *Store) FavoriteTools() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data[keyFavoriteTools]...)
}

// ToggleFavorite flips a tool's favorite status and reports the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	favs := s.data[keyFavoriteTools]
	for i, existing := range favs {
		if existing == id {
			s.data[keyFavoriteTools] = append(favs[:i], favs[i+1:]...)
			return false, s.save()
		}
	}
	s.data[keyFavoriteTools] = append(favs, id)
	return true, s.save()
}

func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
