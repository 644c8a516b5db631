package profiles

import (
	"errors"
	"sort"
	"sync"

	golog "github.com/fclairamb/go-log"

	"github.com/mmcdole/profilekeeper/pkg/logging"
)

// Store owns the profile collection. Every change is written through to
// the source as a full rewrite; the source is never re-read after Load.
type Store struct {
	source Source
	logger golog.Logger
	audit  logging.AuditLogger

	mu      sync.RWMutex
	records map[string]*Record
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the application logger
func WithLogger(logger golog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithAudit sets the logger that receives profile events
func WithAudit(audit logging.AuditLogger) StoreOption {
	return func(s *Store) {
		s.audit = audit
	}
}

// NewStore creates a store with an empty collection bound to source.
// Call Load to read the existing collection.
func NewStore(source Source, opts ...StoreOption) *Store {
	s := &Store{
		source:  source,
		logger:  logging.App,
		audit:   logging.Audit,
		records: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("source", source.Location())
	return s
}

// Open creates a store and loads the collection from source
func Open(source Source, opts ...StoreOption) (*Store, error) {
	s := NewStore(source, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory collection with the source's contents.
// On failure the collection is left empty and a *StoreReadError is returned.
func (s *Store) Load() error {
	records, err := s.source.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.records = make(map[string]*Record)
		if errors.Is(err, ErrNoCollection) {
			s.logger.Warn("No profile collection yet", "error", err)
		} else {
			s.logger.Error("Failed to load profiles", "error", err)
		}
		return &StoreReadError{Location: s.source.Location(), Err: err}
	}

	s.records = records
	s.logger.Info("Loaded profiles", "count", len(records))
	return nil
}

// Get returns a copy of the record for id
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrUnknownUser
	}
	return rec.Clone(), nil
}

// Exists reports whether a record is stored for id
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok
}

// IDs returns every stored id in sorted order
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Save inserts or replaces rec under rec.ID and rewrites the collection.
// If the rewrite fails the record is still held in memory.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec.Clone()
	return s.flushLocked()
}

// Delete removes the record for id and rewrites the collection.
// Deleting an unknown id does nothing.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	err := s.flushLocked()
	s.audit.LogChange("delete", id, "status", writeStatus(err))
	return err
}

func (s *Store) flushLocked() error {
	if err := s.source.Save(s.records); err != nil {
		s.logger.Error("Failed to write profiles", "error", err)
		return &StoreWriteError{Location: s.source.Location(), Err: err}
	}
	s.logger.Debug("Wrote profiles", "count", len(s.records))
	return nil
}
