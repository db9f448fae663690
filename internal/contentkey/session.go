package contentkey

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jaki95/hls-asset-manager/internal/media"
)

// Preparer performs the per-recipient key session setup. It runs on its own
// goroutine; its error becomes the registration's outcome.
type Preparer func(ctx context.Context, ref media.Reference) error

type recipient struct {
	ref          media.Reference
	registration *Registration
}

// Session is a content key session shared by every protected asset in the
// process.
type Session struct {
	id         string
	prepare    Preparer
	metrics    *Metrics
	mu         sync.Mutex
	recipients []recipient
	closed     bool
	inflight   sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithPreparer sets the per-recipient setup step.
func WithPreparer(p Preparer) Option {
	return func(s *Session) {
		s.prepare = p
	}
}

// WithMetrics attaches outcome counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession creates an open session with a random ID.
func NewSession(opts ...Option) *Session {
	s := &Session{id: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// AddRecipient attaches ref to the session. Setup, if any, is started before
// returning and completes asynchronously. A reference that is already
// attached gets the registration of the earlier call; a reference whose setup
// failed is detached and may be added again.
func (s *Session) AddRecipient(ctx context.Context, ref media.Reference) *Registration {
	if ref == nil {
		s.metrics.observe(ResultRejected)
		return Failed(nil, ErrNilRecipient)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.metrics.observe(ResultRejected)
		return Failed(ref, ErrSessionClosed)
	}
	for _, existing := range s.recipients {
		if media.Equal(existing.ref, ref) {
			s.mu.Unlock()
			slog.Debug("Content key recipient already attached", "session", s.id, "locator", ref.Locator())
			s.metrics.observe(ResultDuplicate)
			return existing.registration
		}
	}
	reg := NewRegistration(ref)
	s.recipients = append(s.recipients, recipient{ref: ref, registration: reg})
	s.metrics.setRecipients(len(s.recipients))
	s.inflight.Add(1)
	s.mu.Unlock()

	slog.Info("Adding content key recipient", "session", s.id, "locator", ref.Locator())

	go func() {
		defer s.inflight.Done()
		err := s.runPrepare(ctx, ref)
		if err != nil {
			slog.Error("Content key recipient setup failed", "session", s.id, "locator", ref.Locator(), "error", err)
			s.detach(reg)
			s.metrics.observe(ResultFailed)
		} else {
			s.metrics.observe(ResultRegistered)
		}
		reg.Complete(err)
	}()

	return reg
}

func (s *Session) runPrepare(ctx context.Context, ref media.Reference) (err error) {
	if s.prepare == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("content key setup panicked: %v", r)
		}
	}()
	return s.prepare(ctx, ref)
}

func (s *Session) detach(reg *Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recipients {
		if r.registration == reg {
			s.recipients = append(s.recipients[:i], s.recipients[i+1:]...)
			break
		}
	}
	s.metrics.setRecipients(len(s.recipients))
}

// Recipients returns the attached references in registration order.
func (s *Session) Recipients() []media.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]media.Reference, 0, len(s.recipients))
	for _, r := range s.recipients {
		result = append(result, r.ref)
	}
	return result
}

// Close rejects further recipients and waits for in-flight setup to finish.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.inflight.Wait()
	slog.Info("Content key session closed", "session", s.id)
	return nil
}
