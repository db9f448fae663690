// Package state keeps the download state of each asset, keyed by asset name.
// The state lives beside the asset rather than on it so that catalog assets
// stay immutable while downloads progress.
package state

import (
	"context"
	"fmt"

	"github.com/jaki95/hls-asset-manager/internal/asset"
)

// Store maps asset names to download states.
type Store interface {
	// State returns the stored state and whether the name was present.
	State(ctx context.Context, name string) (asset.DownloadState, bool, error)

	SetState(ctx context.Context, name string, s asset.DownloadState) error

	// Remove forgets the name; removing an absent name is not an error.
	Remove(ctx context.Context, name string) error

	All(ctx context.Context) (map[string]asset.DownloadState, error)
}

// Lookup returns the state for name, or NotDownloaded when the store has no
// entry for it.
func Lookup(ctx context.Context, store Store, name string) (asset.DownloadState, error) {
	s, ok, err := store.State(ctx, name)
	if err != nil {
		return asset.NotDownloaded, err
	}
	if !ok {
		return asset.NotDownloaded, nil
	}
	return s, nil
}

func validate(name string, s asset.DownloadState) error {
	if name == "" {
		return ErrEmptyName
	}
	if s == "" || !s.IsValid() {
		return fmt.Errorf("%w: %q", asset.ErrUnknownState, string(s))
	}
	return nil
}
