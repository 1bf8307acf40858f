package roster

import (
	"sort"
	"sync"
)

// Selection tracks the ids selected for bulk operations. Selection is scoped
// to the page the operator can currently see: changing page clears it, and
// any id that no longer exists in the store is pruned after a mutation.
type Selection struct {
	mu   sync.Mutex
	ids  map[int64]struct{}
	page int
}

// NewSelection creates an empty selection scoped to page 1.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{}), page: 1}
}

// Toggle flips the selected state of one id.
func (s *Selection) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Add selects the given ids, typically the visible page.
func (s *Selection) Add(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Has reports whether the id is selected.
func (s *Selection) Has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{})
}

// SetPage records the active page, clearing the selection when it changes.
func (s *Selection) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page != s.page {
		s.page = page
		s.ids = make(map[int64]struct{})
	}
}

// Prune drops every selected id for which exists reports false. Called after
// deletes so the selection never references records that are gone.
func (s *Selection) Prune(exists func(int64) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if !exists(id) {
			delete(s.ids, id)
		}
	}
}
