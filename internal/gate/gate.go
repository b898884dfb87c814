// Package gate provides the process-wide serialization point for the sale
// engine. Every mutating operation runs through a single FIFO gate, giving a
// total order over mutations; that total order is what makes the idempotency
// replay and the credit-limit projection correct without finer locking.
package gate

import (
	"context"
	"sync"
)

// Gate admits one task at a time, strictly in arrival order. Waiting for
// admission is cancellable through the context; once admitted a task always
// runs to completion.
type Gate struct {
	mu   sync.Mutex
	tail chan struct{}
}

// New returns an open gate.
func New() *Gate {
	released := make(chan struct{})
	close(released)
	return &Gate{tail: released}
}

// RunExclusive waits for its turn, runs fn, and releases the gate. If ctx is
// cancelled before admission the task never runs and ctx.Err is returned.
func (g *Gate) RunExclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	prev := g.tail
	turn := make(chan struct{})
	g.tail = turn
	g.mu.Unlock()

	select {
	case <-prev:
	case <-ctx.Done():
		// Keep the chain intact: release our slot once the predecessor is done.
		go func() {
			<-prev
			close(turn)
		}()
		return ctx.Err()
	}

	defer close(turn)
	return fn(ctx)
}

// Run is RunExclusive for tasks that produce a value.
func Run[T any](ctx context.Context, g *Gate, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.RunExclusive(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
