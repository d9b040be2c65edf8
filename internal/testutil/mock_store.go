// mock_store.go - Store wrapper with error injection for handler tests
package testutil

import (
	"context"
	"sync"

	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/storage"
)

// MockStore wraps a MemoryStore and can be told to fail.
type MockStore struct {
	*storage.MemoryStore

	mu      sync.Mutex
	err     error
	appends int
}

// NewMockStore creates a mock holding records.
func NewMockStore(records ...models.FileRecord) *MockStore {
	mem, err := storage.NewMemoryStore(records...)
	if err != nil {
		panic(err)
	}
	return &MockStore{MemoryStore: mem}
}

// FailWith makes every following call return err. nil restores normal
// behaviour.
func (m *MockStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Appends returns how many Append calls reached the store.
func (m *MockStore) Appends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appends
}

func (m *MockStore) failure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *MockStore) List(ctx context.Context) ([]models.FileRecord, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.MemoryStore.List(ctx)
}

func (m *MockStore) Get(ctx context.Context, id string) (models.FileRecord, error) {
	if err := m.failure(); err != nil {
		return models.FileRecord{}, err
	}
	return m.MemoryStore.Get(ctx, id)
}

func (m *MockStore) Append(ctx context.Context, records ...models.FileRecord) error {
	if err := m.failure(); err != nil {
		return err
	}
	m.mu.Lock()
	m.appends++
	m.mu.Unlock()
	return m.MemoryStore.Append(ctx, records...)
}

func (m *MockStore) Remove(ctx context.Context, id string) (bool, error) {
	if err := m.failure(); err != nil {
		return false, err
	}
	return m.MemoryStore.Remove(ctx, id)
}

func (m *MockStore) Rename(ctx context.Context, id, name string) (models.FileRecord, error) {
	if err := m.failure(); err != nil {
		return models.FileRecord{}, err
	}
	return m.MemoryStore.Rename(ctx, id, name)
}

// Ensure MockStore implements storage.Store
var _ storage.Store = (*MockStore)(nil)
