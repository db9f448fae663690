// Package media holds opaque references to playable media and the loader that
// resolves a stream to either its downloaded copy or its remote playlist.
package media

import (
	"fmt"
	"net/url"
	"reflect"
)

// Reference is an opaque handle to playable media. Implementations should be
// pointer types so that equality is identity-based.
type Reference interface {
	// Locator returns the URL or path the media is read from.
	Locator() string

	// IsLocal reports whether the media is a downloaded copy.
	IsLocal() bool
}

// Equal compares two references. Comparable dynamic types use ==, which is
// identity for pointers; anything else falls back to deep equality.
func Equal(a, b Reference) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// RemoteAsset references a playlist served over the network.
type RemoteAsset struct {
	url *url.URL
}

// NewRemote parses rawURL into a remote reference.
func NewRemote(rawURL string) (*RemoteAsset, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocator, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidLocator, rawURL)
	}
	return &RemoteAsset{url: u}, nil
}

func (r *RemoteAsset) Locator() string { return r.url.String() }

func (r *RemoteAsset) IsLocal() bool { return false }

// URL returns a copy of the playlist URL.
func (r *RemoteAsset) URL() *url.URL {
	u := *r.url
	return &u
}

// LocalAsset references a downloaded bundle.
type LocalAsset struct {
	path string
}

// NewLocal returns a reference to the bundle at path.
func NewLocal(path string) (*LocalAsset, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidLocator)
	}
	return &LocalAsset{path: path}, nil
}

func (l *LocalAsset) Locator() string { return l.path }

func (l *LocalAsset) IsLocal() bool { return true }
