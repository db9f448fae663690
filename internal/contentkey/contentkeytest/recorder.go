// Package contentkeytest provides a recording Registrar for tests.
package contentkeytest

import (
	"context"
	"sync"

	"github.com/jaki95/hls-asset-manager/internal/contentkey"
	"github.com/jaki95/hls-asset-manager/internal/media"
)

// Recorder is a Registrar that remembers every call and completes each
// registration immediately with Err.
type Recorder struct {
	Err error

	mu    sync.Mutex
	calls []media.Reference
}

func (r *Recorder) AddRecipient(_ context.Context, ref media.Reference) *contentkey.Registration {
	r.mu.Lock()
	r.calls = append(r.calls, ref)
	err := r.Err
	r.mu.Unlock()

	return contentkey.Failed(ref, err)
}

// Calls returns the references passed to AddRecipient, in order.
func (r *Recorder) Calls() []media.Reference {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]media.Reference, len(r.calls))
	copy(result, r.calls)
	return result
}

// Count returns the number of AddRecipient calls.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
