package catalog

import (
	"context"
	"log/slog"

	"github.com/jaki95/hls-asset-manager/internal/asset"
	"github.com/jaki95/hls-asset-manager/internal/media"
	"github.com/jaki95/hls-asset-manager/internal/state"
	"github.com/jaki95/hls-asset-manager/internal/storage"
)

// Downloads applies download reports to catalog assets. It records states in
// the store and points each asset at its downloaded copy or back at its
// remote playlist, re-registering protected media on every switch.
type Downloads struct {
	catalog *Manager
	store   state.Store
	storage storage.Storage
}

// NewDownloads creates a Downloads; a nil storage never switches media.
func NewDownloads(m *Manager, store state.Store, s storage.Storage) *Downloads {
	return &Downloads{
		catalog: m,
		store:   store,
		storage: s,
	}
}

// SetState records next for a and returns the state stored before, along
// with whether one was stored. Reaching Downloaded switches a to its
// downloaded copy when storage has one.
func (d *Downloads) SetState(ctx context.Context, a *asset.Asset, next asset.DownloadState) (asset.DownloadState, bool, error) {
	previous, known, err := d.store.State(ctx, a.Name())
	if err != nil {
		return asset.NotDownloaded, false, err
	}
	if known && !previous.CanTransition(next) {
		slog.Warn("Unexpected download state transition", "asset", a.Name(), "from", previous, "to", next)
	}

	if err := d.store.SetState(ctx, a.Name(), next); err != nil {
		return previous, known, err
	}

	if next == asset.Downloaded {
		if err := d.useDownloadedCopy(ctx, a); err != nil {
			return previous, known, err
		}
	}

	return previous, known, nil
}

// Reset removes any downloaded copy of a, switches it back to its remote
// playlist and forgets its stored state.
func (d *Downloads) Reset(ctx context.Context, a *asset.Asset) error {
	if d.storage != nil {
		if err := d.storage.Remove(d.storage.AssetPath(a.Name())); err != nil {
			return err
		}
	}

	if a.Media().IsLocal() {
		remote, err := media.NewRemote(a.Stream().PlaylistURL)
		if err != nil {
			return err
		}
		a.SetMedia(context.WithoutCancel(ctx), remote, d.catalog.registrar)
		slog.Info("Switched asset back to remote playlist", "asset", a.Name())
	}

	return d.store.Remove(ctx, a.Name())
}

// UnknownBundles returns the locators of downloaded bundles that belong to no
// catalog asset.
func (d *Downloads) UnknownBundles() ([]string, error) {
	if d.storage == nil {
		return nil, nil
	}

	bundles, err := d.storage.ListBundles()
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{})
	for _, a := range d.catalog.Assets() {
		known[d.storage.AssetPath(a.Name())] = struct{}{}
	}

	var unknown []string
	for _, bundle := range bundles {
		if _, ok := known[bundle]; !ok {
			unknown = append(unknown, d.storage.Locator(bundle))
		}
	}
	return unknown, nil
}

func (d *Downloads) useDownloadedCopy(ctx context.Context, a *asset.Asset) error {
	if a.Media().IsLocal() {
		return nil
	}

	local, err := media.FindDownloaded(d.storage, a.Name())
	if err != nil {
		return err
	}
	if local == nil {
		return nil
	}

	a.SetMedia(context.WithoutCancel(ctx), local, d.catalog.registrar)
	slog.Info("Switched asset to downloaded copy", "asset", a.Name(), "locator", local.Locator())
	return nil
}
