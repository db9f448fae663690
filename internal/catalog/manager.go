// Package catalog builds the list of assets offered for playback and
// download from the configured streams.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jaki95/hls-asset-manager/internal/asset"
	"github.com/jaki95/hls-asset-manager/internal/contentkey"
	"github.com/jaki95/hls-asset-manager/internal/domain"
	"github.com/jaki95/hls-asset-manager/internal/media"
)

// Manager owns the assets built from a stream catalog
type Manager struct {
	loader    media.Loader
	registrar contentkey.Registrar

	mu     sync.RWMutex
	assets map[string]*asset.Asset
}

// NewManager creates an empty manager
func NewManager(loader media.Loader, registrar contentkey.Registrar) *Manager {
	return &Manager{
		loader:    loader,
		registrar: registrar,
		assets:    make(map[string]*asset.Asset),
	}
}

// Load resolves media for each stream and builds its asset. Streams whose
// media cannot be resolved are logged and skipped; the returned count is the
// number of assets added.
func (m *Manager) Load(ctx context.Context, streams []domain.Stream) (int, error) {
	added := 0
	for _, stream := range streams {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		// Checked before building so a rejected stream never reaches the registrar
		if m.hasName(stream.Name) {
			slog.Warn("Skipping stream", "asset", stream.Name, "error", fmt.Errorf("%w: %s", ErrDuplicateAsset, stream.Name))
			continue
		}

		ref, err := m.loader.Load(ctx, stream)
		if err != nil {
			slog.Warn("Skipping stream", "asset", stream.Name, "error", err)
			continue
		}

		a := asset.NewContext(ctx, stream, ref, m.registrar)
		if err := m.Add(a); err != nil {
			slog.Warn("Skipping stream", "asset", stream.Name, "error", err)
			continue
		}
		added++

		slog.Debug("Asset loaded",
			"asset", stream.Name,
			"protected", stream.IsProtected,
			"local", ref.IsLocal(),
		)
	}

	slog.Info("Catalog loaded", "assets", added, "streams", len(streams))
	return added, nil
}

// Add tracks a. An equal asset already tracked is a no-op; a different asset
// with the same name is rejected.
func (m *Manager) Add(a *asset.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.assets[a.Name()]; ok {
		if existing.Equal(a) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateAsset, a.Name())
	}
	m.assets[a.Name()] = a
	return nil
}

func (m *Manager) hasName(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.assets[name]
	return ok
}

// Asset returns the asset with the given name
func (m *Manager) Asset(name string) (*asset.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return a, nil
}

// Contains reports whether an asset equal to a is tracked
func (m *Manager) Contains(a *asset.Asset) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	existing, ok := m.assets[a.Name()]
	return ok && existing.Equal(a)
}

// Assets returns every tracked asset sorted by name
func (m *Manager) Assets() []*asset.Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*asset.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Len returns the number of tracked assets
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}
