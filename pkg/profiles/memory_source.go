package profiles

import "sync"

// MemorySource implements Source using in-memory storage
type MemorySource struct {
	mu      sync.RWMutex
	records map[string]*Record
	saves   int

	// SaveErr, when set, is returned by every Save
	SaveErr error
}

// NewMemorySource creates a MemorySource. A nil initial map leaves the
// collection unwritten, so the first Load reports ErrNoCollection.
func NewMemorySource(initial map[string]*Record) *MemorySource {
	s := &MemorySource{}
	if initial != nil {
		s.records = cloneCollection(initial)
	}
	return s
}

// Location implements Source
func (s *MemorySource) Location() string {
	return "memory"
}

// Load implements Source
func (s *MemorySource) Load() (map[string]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.records == nil {
		return nil, ErrNoCollection
	}
	return cloneCollection(s.records), nil
}

// Save implements Source
func (s *MemorySource) Save(records map[string]*Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.records = cloneCollection(records)
	s.saves++
	return nil
}

// Saves returns how many times the collection has been written
func (s *MemorySource) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneCollection(records map[string]*Record) map[string]*Record {
	out := make(map[string]*Record, len(records))
	for id, rec := range records {
		out[id] = rec.Clone()
	}
	return out
}
