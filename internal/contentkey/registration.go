// Package contentkey defines the port through which protected assets are
// handed to a content key session, and an in-process session implementation.
package contentkey

import (
	"context"
	"sync"

	"github.com/jaki95/hls-asset-manager/internal/media"
)

// Registrar accepts media that needs content keys delivered before playback.
// AddRecipient must have initiated registration by the time it returns; the
// returned Registration reports when and how it finished.
type Registrar interface {
	AddRecipient(ctx context.Context, ref media.Reference) *Registration
}

// Registration is the observable outcome of a single AddRecipient call.
type Registration struct {
	recipient media.Reference
	done      chan struct{}
	once      sync.Once
	err       error
}

// NewRegistration returns a pending registration for ref.
func NewRegistration(ref media.Reference) *Registration {
	return &Registration{
		recipient: ref,
		done:      make(chan struct{}),
	}
}

// Failed returns a registration that has already completed with err.
func Failed(ref media.Reference, err error) *Registration {
	r := NewRegistration(ref)
	r.Complete(err)
	return r
}

// Succeeded returns a registration that has already completed successfully.
func Succeeded(ref media.Reference) *Registration {
	r := NewRegistration(ref)
	r.Complete(nil)
	return r
}

// Complete records the outcome. Only the first call has any effect; it
// reports whether this call was the one that completed the registration.
func (r *Registration) Complete(err error) bool {
	completed := false
	r.once.Do(func() {
		r.err = err
		close(r.done)
		completed = true
	})
	return completed
}

// Recipient returns the media reference that was registered.
func (r *Registration) Recipient() media.Reference {
	return r.recipient
}

// Done is closed once the registration has completed.
func (r *Registration) Done() <-chan struct{} {
	return r.done
}

// Err returns the outcome, or ErrRegistrationPending if still in flight.
func (r *Registration) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return ErrRegistrationPending
	}
}

// Wait blocks until the registration completes or ctx is done.
func (r *Registration) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
