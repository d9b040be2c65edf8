package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/filedesk/backend/internal/fileutil"
	"github.com/filedesk/backend/internal/models"
)

// MemoryStore implements Store in process memory. Nothing survives the
// process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.FileRecord
	index   map[string]int
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore holding seed.
func NewMemoryStore(seed ...models.FileRecord) (*MemoryStore, error) {
	s := &MemoryStore{
		index: make(map[string]int),
		now:   time.Now,
	}
	if err := s.Append(context.Background(), seed...); err != nil {
		return nil, fmt.Errorf("seeding memory store: %w", err)
	}
	return s, nil
}

// List returns a copy of all records in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FileRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Get retrieves a record by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.FileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.records[i], nil
}

// Append adds records after validating all of them.
func (s *MemoryStore) Append(ctx context.Context, records ...models.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := validate(r); err != nil {
			return err
		}
		if _, ok := s.index[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		if _, ok := batch[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		batch[r.ID] = struct{}{}
	}

	for _, r := range records {
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return nil
}

// Remove deletes a record by id. Unknown ids are ignored.
func (s *MemoryStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	return true, nil
}

// Rename updates the display name of a record and moves its descendants.
func (s *MemoryStore) Rename(ctx context.Context, id string, name string) (models.FileRecord, error) {
	if !fileutil.ValidName(name) {
		return models.FileRecord{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.FileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated, oldPath, newPath := renamed(s.records[i], name, s.now())
	s.records[i] = updated

	if updated.IsFolder() {
		for j := range s.records {
			if isBelow(s.records[j].Path, oldPath) {
				s.records[j].Path = newPath + s.records[j].Path[len(oldPath):]
			}
		}
	}
	return updated, nil
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
