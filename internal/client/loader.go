package client

import (
	"context"
	"sync"
)

// State is the lifecycle of a Loader: idle, then loading, then success or
// error. Any new Load returns it to loading.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Snapshot is the observable state of a Loader. Data keeps the last
// successful value while a reload is in flight or after it fails.
type Snapshot[T any] struct {
	State State
	Data  T
	Err   error
}

// Loader runs one fetch at a time. Starting a load cancels the previous one,
// and a result is applied only if it belongs to the newest load and the
// Loader has not been closed.
type Loader[T any] struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	snapshot   Snapshot[T]
	onChange   func(Snapshot[T])
}

// NewLoader returns an idle Loader. onChange, if set, is called after every
// applied transition, outside the Loader's lock.
func NewLoader[T any](onChange func(Snapshot[T])) *Loader[T] {
	return &Loader[T]{onChange: onChange}
}

// Load starts fetch in a goroutine and returns a channel closed once the
// fetch has finished, whether or not its result was applied. Load on a
// closed Loader does nothing.
func (l *Loader[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) <-chan struct{} {
	done := make(chan struct{})

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(done)
		return done
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.snapshot.State = StateLoading
	l.snapshot.Err = nil
	snap := l.snapshot
	l.mu.Unlock()

	l.notify(snap)

	go func() {
		defer close(done)
		defer cancel()

		data, err := fetch(fetchCtx)
		l.complete(gen, data, err)
	}()

	return done
}

func (l *Loader[T]) complete(gen uint64, data T, err error) {
	l.mu.Lock()
	if l.closed || gen != l.generation {
		l.mu.Unlock()
		return
	}
	l.cancel = nil
	if err != nil {
		l.snapshot.State = StateError
		l.snapshot.Err = err
	} else {
		l.snapshot = Snapshot[T]{State: StateSuccess, Data: data}
	}
	snap := l.snapshot
	l.mu.Unlock()

	l.notify(snap)
}

func (l *Loader[T]) notify(snap Snapshot[T]) {
	if l.onChange != nil {
		l.onChange(snap)
	}
}

func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot.State
}

func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}

// Close cancels any in-flight fetch. Results arriving afterwards are discarded.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
