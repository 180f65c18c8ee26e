// Package ctxval lets code deep in a request report values back to the
// middleware that started it. Wrap attaches one shared box to the context;
// every context derived from it reads and writes the same box.
package ctxval

import (
	"context"
	"sync"
)

type boxKey struct{}

type box struct {
	mu     sync.RWMutex
	values map[any]any
}

// Wrap attaches a box unless ctx already carries one, so nested wraps share
// the outermost box.
func Wrap(ctx context.Context) context.Context {
	if _, ok := boxFrom(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, boxKey{}, &box{values: make(map[any]any)})
}

// Set stores v under k. It is a no-op on a context that was never wrapped.
func Set[K comparable, V any](ctx context.Context, k K, v V) {
	b, ok := boxFrom(ctx)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[k] = v
}

// Get returns the value stored under k when it has type V.
func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	b, ok := boxFrom(ctx)
	if !ok {
		return *new(V), false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[k].(V)
	return v, ok
}

func boxFrom(ctx context.Context) (*box, bool) {
	b, ok := ctx.Value(boxKey{}).(*box)
	return b, ok
}
