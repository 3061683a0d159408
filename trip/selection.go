package trip

import (
	"sync"

	"tourcab/catalog"
)

// SelectionSet is the ordered set of destinations a user picked for a trip.
// Names are unique and insertion order is kept.
type SelectionSet struct {
	mu    sync.RWMutex
	items []catalog.Destination
}

func NewSelectionSet(items ...catalog.Destination) *SelectionSet {
	s := &SelectionSet{}
	for _, d := range items {
		s.Add(d)
	}
	return s
}

// Add appends d unless a destination with the same name is already selected.
func (s *SelectionSet) Add(d catalog.Destination) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(d.Name) >= 0 {
		return false
	}
	s.items = append(s.items, d)
	return true
}

// Remove drops the destination with the given name. Unknown names are ignored.
func (s *SelectionSet) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(name)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return true
}

// List returns a snapshot in insertion order.
func (s *SelectionSet) List() []catalog.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Destination{}, s.items...)
}

func (s *SelectionSet) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(name) >= 0
}

func (s *SelectionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *SelectionSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *SelectionSet) indexLocked(name string) int {
	for i, d := range s.items {
		if d.Name == name {
			return i
		}
	}
	return -1
}
