// Package asset models a downloadable, optionally protected HLS asset: the
// stream it was built from, the media reference it plays, and the content key
// registration made for it.
package asset

import (
	"context"
	"sync"

	"github.com/jaki95/hls-asset-manager/internal/contentkey"
	"github.com/jaki95/hls-asset-manager/internal/domain"
	"github.com/jaki95/hls-asset-manager/internal/media"
)

// Asset binds a stream to the media reference used to play or download it.
type Asset struct {
	stream domain.Stream

	mu           sync.RWMutex
	media        media.Reference
	registration *contentkey.Registration
}

// New builds an asset. For protected streams the media reference is handed
// to registrar before New returns.
func New(stream domain.Stream, ref media.Reference, registrar contentkey.Registrar) *Asset {
	return NewContext(context.Background(), stream, ref, registrar)
}

// NewContext is New with a context passed through to the registrar.
func NewContext(ctx context.Context, stream domain.Stream, ref media.Reference, registrar contentkey.Registrar) *Asset {
	return &Asset{
		stream:       stream,
		media:        ref,
		registration: register(ctx, stream, ref, registrar),
	}
}

func register(ctx context.Context, stream domain.Stream, ref media.Reference, registrar contentkey.Registrar) *contentkey.Registration {
	if !stream.IsProtected {
		return nil
	}
	if registrar == nil {
		return contentkey.Failed(ref, contentkey.ErrNoRegistrar)
	}
	return registrar.AddRecipient(ctx, ref)
}

// Stream returns the stream descriptor.
func (a *Asset) Stream() domain.Stream {
	return a.stream
}

// Name returns the stream name, which is also the asset's lookup key.
func (a *Asset) Name() string {
	return a.stream.Name
}

// IsProtected reports whether the stream requires content keys.
func (a *Asset) IsProtected() bool {
	return a.stream.IsProtected
}

// Media returns the current media reference.
func (a *Asset) Media() media.Reference {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.media
}

// SetMedia swaps the media reference, for example once a downloaded copy
// replaces the remote playlist. A protected asset hands the new reference to
// registrar before SetMedia returns, and Registration then reports on it.
// Setting the current reference again does nothing.
func (a *Asset) SetMedia(ctx context.Context, ref media.Reference, registrar contentkey.Registrar) {
	if media.Equal(a.Media(), ref) {
		return
	}

	registration := register(ctx, a.stream, ref, registrar)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.media = ref
	a.registration = registration
}

// Registration returns the content key registration for the current media
// reference, or nil for unprotected assets.
func (a *Asset) Registration() *contentkey.Registration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registration
}

// Equal reports whether both assets wrap equal streams and equal media
// references.
func (a *Asset) Equal(other *Asset) bool {
	if a == nil || other == nil {
		return a == nil && other == nil
	}
	if a == other {
		return true
	}
	return a.stream.Equal(other.stream) && media.Equal(a.Media(), other.Media())
}
