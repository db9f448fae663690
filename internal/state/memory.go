package state

import (
	"context"
	"sync"

	"github.com/jaki95/hls-asset-manager/internal/asset"
)

// MemoryStore keeps states in a map for the lifetime of the process
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]asset.DownloadState
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]asset.DownloadState),
	}
}

func (m *MemoryStore) State(_ context.Context, name string) (asset.DownloadState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[name]
	if !ok {
		return asset.NotDownloaded, false, nil
	}
	return s, true, nil
}

func (m *MemoryStore) SetState(_ context.Context, name string, s asset.DownloadState) error {
	if err := validate(name, s); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[name] = s
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, name)
	return nil
}

func (m *MemoryStore) All(_ context.Context) (map[string]asset.DownloadState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]asset.DownloadState, len(m.states))
	for name, s := range m.states {
		result[name] = s
	}
	return result, nil
}
