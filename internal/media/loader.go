package media

import (
	"context"
	"log/slog"

	"github.com/jaki95/hls-asset-manager/internal/domain"
	"github.com/jaki95/hls-asset-manager/internal/storage"
)

// Loader produces the media reference an asset is built around.
type Loader interface {
	Load(ctx context.Context, stream domain.Stream) (Reference, error)
}

// StorageLoader prefers a downloaded copy found in storage and falls back to
// the stream's remote playlist.
type StorageLoader struct {
	storage storage.Storage
}

// NewLoader creates a loader; a nil storage always resolves remotely.
func NewLoader(s storage.Storage) *StorageLoader {
	return &StorageLoader{storage: s}
}

func (l *StorageLoader) Load(ctx context.Context, stream domain.Stream) (Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	local, err := FindDownloaded(l.storage, stream.Name)
	if err != nil {
		return nil, err
	}
	if local != nil {
		slog.Debug("Using downloaded copy", "asset", stream.Name, "locator", local.Locator())
		return local, nil
	}

	remote, err := NewRemote(stream.PlaylistURL)
	if err != nil {
		return nil, err
	}
	return remote, nil
}

// FindDownloaded returns the downloaded copy of the named asset, or nil when
// s is nil or holds no copy.
func FindDownloaded(s storage.Storage, name string) (*LocalAsset, error) {
	if s == nil {
		return nil, nil
	}
	p := s.AssetPath(name)
	if !s.FileExists(p) {
		return nil, nil
	}
	return NewLocal(s.Locator(p))
}
