// Package views holds the per-screen view models. Each one owns a payload,
// a loading flag, and an error string, and exposes a trigger that calls the
// backend and converts the wire schema into the view schema.
package views

import (
	"context"
	"net/http"
	"sync"

	"rfidattend/internal/result"
)

// State is a snapshot of a view model.
type State[T any] struct {
	Data    T
	Loaded  bool
	Loading bool
	Err     string
}

// Loader runs fetches for one screen. A newer trigger supersedes an older
// in-flight one: the older context is cancelled and its result discarded.
type Loader[T any] struct {
	fetch func(ctx context.Context) result.Result[T]

	mu     sync.Mutex
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader creates a loader whose Load and EnsureLoaded use fetch.
func NewLoader[T any](fetch func(ctx context.Context) result.Result[T]) *Loader[T] {
	return &Loader[T]{fetch: fetch}
}

// Snapshot returns the current state.
func (l *Loader[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load triggers the default fetch.
func (l *Loader[T]) Load(ctx context.Context) State[T] {
	return l.Run(ctx, l.fetch)
}

// EnsureLoaded fetches only when no result is populated yet. Loaded data is
// kept until the next explicit trigger.
func (l *Loader[T]) EnsureLoaded(ctx context.Context) State[T] {
	l.mu.Lock()
	loaded := l.state.Loaded
	l.mu.Unlock()
	if loaded {
		return l.Snapshot()
	}
	return l.Load(ctx)
}

// Run triggers fetch and stores its outcome unless a newer trigger started
// in the meantime. A nil fetch records an error instead of calling out.
func (l *Loader[T]) Run(ctx context.Context, fetch func(ctx context.Context) result.Result[T]) State[T] {
	if fetch == nil {
		fetch = noFetch[T]
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.state.Loading = true
	l.mu.Unlock()

	res := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return l.state
	}
	l.cancel = nil
	if res.OK {
		l.state.Data = res.Data
		l.state.Loaded = true
		l.state.Err = ""
	} else {
		l.state.Err = res.Message()
	}
	l.state.Loading = false
	return l.state
}

func noFetch[T any](context.Context) result.Result[T] {
	return result.Result[T]{Err: &result.APIError{Code: http.StatusNotImplemented, Message: "This screen loads through its own action", Details: "no default fetch"}}
}

// Reset forgets the stored payload so the next EnsureLoaded fetches again.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.state = State[T]{Data: zero}
}
