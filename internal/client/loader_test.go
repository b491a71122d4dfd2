package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish")
	}
}

func TestLoader_Success(t *testing.T) {
	var mu sync.Mutex
	var states []State
	l := NewLoader(func(s Snapshot[int]) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s.State)
	})
	assert.Equal(t, StateIdle, l.State())

	wait(t, l.Load(context.Background(), func(context.Context) (int, error) { return 42, nil }))

	snap := l.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Equal(t, 42, snap.Data)
	mu.Lock()
	assert.Equal(t, []State{StateLoading, StateSuccess}, states)
	mu.Unlock()
}

func TestLoader_ErrorKeepsLastData(t *testing.T) {
	l := NewLoader[string](nil)
	wait(t, l.Load(context.Background(), func(context.Context) (string, error) { return "first", nil }))

	boom := &APIError{Kind: KindServer, Status: 500}
	wait(t, l.Load(context.Background(), func(context.Context) (string, error) { return "", boom }))

	snap := l.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "first", snap.Data)
	assert.ErrorIs(t, snap.Err, boom)

	// manual retry returns to success
	wait(t, l.Load(context.Background(), func(context.Context) (string, error) { return "second", nil }))
	assert.Equal(t, StateSuccess, l.State())
	assert.Nil(t, l.Snapshot().Err)
}

func TestLoader_NewLoadCancelsAndDiscardsPrevious(t *testing.T) {
	l := NewLoader[string](nil)
	started := make(chan struct{})
	release := make(chan struct{})

	first := l.Load(context.Background(), func(ctx context.Context) (string, error) {
		close(started)
		<-release
		// the superseded fetch still returns a value; it must not be applied
		return "stale", ctx.Err()
	})
	<-started

	second := l.Load(context.Background(), func(context.Context) (string, error) { return "fresh", nil })
	wait(t, second)
	close(release)
	wait(t, first)

	snap := l.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Equal(t, "fresh", snap.Data)
}

func TestLoader_SupersededFetchSeesCancellation(t *testing.T) {
	l := NewLoader[int](nil)
	cancelled := make(chan error, 1)
	started := make(chan struct{})

	first := l.Load(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		cancelled <- ctx.Err()
		return 0, ctx.Err()
	})
	<-started
	wait(t, l.Load(context.Background(), func(context.Context) (int, error) { return 7, nil }))
	wait(t, first)

	require.ErrorIs(t, <-cancelled, context.Canceled)
	assert.Equal(t, 7, l.Snapshot().Data)
	assert.Equal(t, StateSuccess, l.State())
}

func TestLoader_CloseDiscardsLateResult(t *testing.T) {
	var calls int
	l := NewLoader(func(Snapshot[int]) { calls++ })
	release := make(chan struct{})

	done := l.Load(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 99, nil
	})
	l.Close()
	close(release)
	wait(t, done)

	assert.Equal(t, StateLoading, l.State())
	assert.Zero(t, l.Snapshot().Data)
	assert.Equal(t, 1, calls)

	wait(t, l.Load(context.Background(), func(context.Context) (int, error) { return 1, nil }))
	assert.Equal(t, 1, calls)
}

func TestLoader_CallerCancellationIsAnError(t *testing.T) {
	l := NewLoader[int](nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wait(t, l.Load(ctx, func(ctx context.Context) (int, error) { return 0, ctx.Err() }))

	assert.Equal(t, StateError, l.State())
	assert.True(t, errors.Is(l.Snapshot().Err, context.Canceled))
}
