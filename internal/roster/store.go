package roster

import (
	"fmt"
	"sync"

	"github.com/skusdev/profile/internal/domain"
)

// Listener is notified after every store mutation, once the mutation has been
// fully applied. Derived views and dashboard aggregates are recomputed from a
// fresh snapshot inside the listener, never cached across mutations.
type Listener func()

// Store owns the canonical in-memory member collection. It is the single
// writer of truth: all reads elsewhere are snapshots, never live references.
//
// Ids come from a store-owned monotonic counter, so an id is never reassigned
// to a different record even after the original is deleted.
type Store struct {
	mu        sync.Mutex
	members   []domain.Member
	nextID    int64
	listeners []Listener
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Subscribe registers a listener invoked after every mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Seed replaces the store contents with the given members, preserving their
// ids, and advances the id counter past the highest seeded id. Used once at
// startup; the counter never moves backwards afterwards.
func (s *Store) Seed(members []domain.Member) {
	s.mu.Lock()
	s.members = make([]domain.Member, 0, len(members))
	for _, m := range members {
		s.members = append(s.members, cloneMember(m))
		if m.ID >= s.nextID {
			s.nextID = m.ID + 1
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Insert assigns the next id, stores the record, and returns it.
func (s *Store) Insert(in domain.MemberInput) domain.Member {
	s.mu.Lock()
	m := domain.Member{
		ID:            s.nextID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Gender:        in.Gender,
		District:      in.District,
		Age:           in.Age,
		CreatedAt:     in.CreatedAt,
		Birthday:      in.Birthday,
		Contributions: in.Contributions,
		ImageURL:      in.ImageURL,
		Tags:          cloneTags(in.Tags),
	}
	s.nextID++
	s.members = append(s.members, m)
	out := cloneMember(m)
	s.mu.Unlock()
	s.notify()
	return out
}

// Update merges the patch over the existing record. Fields absent from the
// patch are untouched.
func (s *Store) Update(id int64, patch domain.MemberPatch) (domain.Member, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Member{}, fmt.Errorf("update member %d: %w", id, domain.ErrNotFound)
	}
	applyPatch(&s.members[i], patch)
	out := cloneMember(s.members[i])
	s.mu.Unlock()
	s.notify()
	return out, nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete member %d: %w", id, domain.ErrNotFound)
	}
	s.members = append(s.members[:i], s.members[i+1:]...)
	s.mu.Unlock()
	s.notify()
	return nil
}

// BulkDelete removes all records whose ids appear in ids. Unknown ids are
// silently ignored; the operation is best-effort, not all-or-nothing.
// Returns the number of records actually removed.
func (s *Store) BulkDelete(ids []int64) int {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	kept := s.members[:0]
	removed := 0
	for _, m := range s.members {
		if drop[m.ID] {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.members = kept
	s.mu.Unlock()
	if removed > 0 {
		s.notify()
	}
	return removed
}

// AddTag adds the tag to the member's tag set. Adding a tag that is already
// present is a no-op, not an error.
func (s *Store) AddTag(id int64, tag string) (domain.Member, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Member{}, fmt.Errorf("tag member %d: %w", id, domain.ErrNotFound)
	}
	if !s.members[i].HasTag(tag) {
		s.members[i].Tags = append(s.members[i].Tags, tag)
	}
	out := cloneMember(s.members[i])
	s.mu.Unlock()
	s.notify()
	return out, nil
}

// RemoveTag removes the tag from the member's tag set. Removing an absent tag
// is a no-op, not an error.
func (s *Store) RemoveTag(id int64, tag string) (domain.Member, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Member{}, fmt.Errorf("untag member %d: %w", id, domain.ErrNotFound)
	}
	tags := s.members[i].Tags[:0]
	for _, t := range s.members[i].Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	s.members[i].Tags = tags
	out := cloneMember(s.members[i])
	s.mu.Unlock()
	s.notify()
	return out, nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id int64) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Member{}, fmt.Errorf("get member %d: %w", id, domain.ErrNotFound)
	}
	return cloneMember(s.members[i]), nil
}

// Contains reports whether a record with the given id exists.
func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// All returns a snapshot of the collection in insertion order. Mutating the
// returned slice or its members does not affect the store.
func (s *Store) All() []domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, cloneMember(m))
	}
	return out
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

func (s *Store) indexOf(id int64) int {
	for i := range s.members {
		if s.members[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, l := range listeners {
		l()
	}
}

func applyPatch(m *domain.Member, p domain.MemberPatch) {
	if p.FirstName != nil {
		m.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		m.LastName = *p.LastName
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Gender != nil {
		m.Gender = *p.Gender
	}
	if p.District != nil {
		m.District = *p.District
	}
	if p.Age != nil {
		m.Age = *p.Age
	}
	if p.Birthday != nil {
		b := *p.Birthday
		m.Birthday = &b
	}
	if p.Contributions != nil {
		m.Contributions = *p.Contributions
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	if p.Tags != nil {
		m.Tags = cloneTags(*p.Tags)
	}
}

func cloneMember(m domain.Member) domain.Member {
	out := m
	out.Tags = cloneTags(m.Tags)
	if m.Birthday != nil {
		b := *m.Birthday
		out.Birthday = &b
	}
	return out
}

// cloneTags always returns a non-nil slice: a member with no tags is an empty
// set, not an absent one.
func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
