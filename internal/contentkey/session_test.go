package contentkey

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/hls-asset-manager/internal/media"
)

func remote(t *testing.T, raw string) media.Reference {
	t.Helper()
	ref, err := media.NewRemote(raw)
	require.NoError(t, err)
	return ref
}

func TestRegistrationLifecycle(t *testing.T) {
	ref := remote(t, "https://x/master.m3u8")
	reg := NewRegistration(ref)

	assert.ErrorIs(t, reg.Err(), ErrRegistrationPending)
	select {
	case <-reg.Done():
		t.Fatal("registration should still be pending")
	default:
	}

	boom := errors.New("boom")
	assert.True(t, reg.Complete(boom))
	assert.False(t, reg.Complete(nil))

	assert.ErrorIs(t, reg.Err(), boom)
	assert.ErrorIs(t, reg.Wait(context.Background()), boom)
	assert.Equal(t, ref, reg.Recipient())
}

func TestRegistrationWaitCancelled(t *testing.T) {
	reg := NewRegistration(remote(t, "https://x/master.m3u8"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, reg.Wait(ctx), context.DeadlineExceeded)
}

func TestSessionAddRecipient(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	var mu sync.Mutex
	var prepared []string
	session := NewSession(
		WithMetrics(metrics),
		WithPreparer(func(_ context.Context, ref media.Reference) error {
			mu.Lock()
			defer mu.Unlock()
			prepared = append(prepared, ref.Locator())
			return nil
		}),
	)
	assert.NotEmpty(t, session.ID())

	ref := remote(t, "https://x/master.m3u8")
	registration := session.AddRecipient(context.Background(), ref)
	require.NoError(t, registration.Wait(context.Background()))

	// Attaching the same reference again does not repeat setup
	again := session.AddRecipient(context.Background(), ref)
	assert.Same(t, registration, again)
	require.NoError(t, again.Wait(context.Background()))

	assert.Equal(t, []media.Reference{ref}, session.Recipients())
	assert.Equal(t, []string{"https://x/master.m3u8"}, prepared)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.registrations.WithLabelValues(ResultRegistered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.registrations.WithLabelValues(ResultDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.recipients))
}

func TestSessionPreparerFailure(t *testing.T) {
	boom := errors.New("key server unavailable")
	session := NewSession(WithPreparer(func(context.Context, media.Reference) error {
		return boom
	}))

	registration := session.AddRecipient(context.Background(), remote(t, "https://x/master.m3u8"))
	assert.ErrorIs(t, registration.Wait(context.Background()), boom)
}

func TestSessionDuplicateSharesOutcome(t *testing.T) {
	release := make(chan struct{})
	boom := errors.New("key server down")
	session := NewSession(WithPreparer(func(context.Context, media.Reference) error {
		<-release
		return boom
	}))
	ref := remote(t, "https://x/master.m3u8")

	first := session.AddRecipient(context.Background(), ref)
	second := session.AddRecipient(context.Background(), ref)
	assert.Same(t, first, second)
	assert.ErrorIs(t, second.Err(), ErrRegistrationPending)

	close(release)
	assert.ErrorIs(t, first.Wait(context.Background()), boom)
	assert.ErrorIs(t, second.Wait(context.Background()), boom)
}

func TestSessionRetriesAfterFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	var mu sync.Mutex
	attempts := 0
	session := NewSession(
		WithMetrics(metrics),
		WithPreparer(func(context.Context, media.Reference) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts == 1 {
				return errors.New("key server down")
			}
			return nil
		}),
	)
	ref := remote(t, "https://x/master.m3u8")

	first := session.AddRecipient(context.Background(), ref)
	assert.EqualError(t, first.Wait(context.Background()), "key server down")
	assert.Empty(t, session.Recipients())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.recipients))

	second := session.AddRecipient(context.Background(), ref)
	assert.NotSame(t, first, second)
	require.NoError(t, second.Wait(context.Background()))

	assert.Equal(t, []media.Reference{ref}, session.Recipients())
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.registrations.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.registrations.WithLabelValues(ResultRegistered)))
}

func TestSessionPreparerPanic(t *testing.T) {
	session := NewSession(WithPreparer(func(context.Context, media.Reference) error {
		panic("bad key")
	}))

	registration := session.AddRecipient(context.Background(), remote(t, "https://x/master.m3u8"))
	err := registration.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestSessionRejects(t *testing.T) {
	session := NewSession()

	assert.ErrorIs(t, session.AddRecipient(context.Background(), nil).Err(), ErrNilRecipient)

	require.NoError(t, session.Close())
	registration := session.AddRecipient(context.Background(), remote(t, "https://x/master.m3u8"))
	assert.ErrorIs(t, registration.Err(), ErrSessionClosed)
	assert.Empty(t, session.Recipients())
}

func TestSessionCloseWaitsForSetup(t *testing.T) {
	release := make(chan struct{})
	session := NewSession(WithPreparer(func(context.Context, media.Reference) error {
		<-release
		return nil
	}))

	registration := session.AddRecipient(context.Background(), remote(t, "https://x/master.m3u8"))
	assert.ErrorIs(t, registration.Err(), ErrRegistrationPending)

	closed := make(chan struct{})
	go func() {
		_ = session.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned before setup finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-closed
	assert.NoError(t, registration.Err())
}
