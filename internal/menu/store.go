package menu

import (
	"slices"
	"sync"
)

// Store is the client's cached copy of the menu. It is never edited in place:
// every fetch replaces the whole snapshot, so the latest fetch wins.
type Store struct {
	mu    sync.RWMutex
	items []Item
	index map[int64]int
}

func NewStore() *Store {
	return &Store{index: map[int64]int{}}
}

func (s *Store) Replace(items []Item) {
	cp := slices.Clone(items)
	idx := make(map[int64]int, len(cp))
	for i, it := range cp {
		idx[it.ID] = i
	}

	s.mu.Lock()
	s.items = cp
	s.index = idx
	s.mu.Unlock()
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store) Lookup(id int64) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// Index returns a copy of the snapshot keyed by item id.
func (s *Store) Index() map[int64]Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]Item, len(s.items))
	for _, it := range s.items {
		out[it.ID] = it
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
