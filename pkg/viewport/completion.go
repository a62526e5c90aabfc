package viewport

import (
	"context"
	"sync"
)

// Completion resolves when an animated render finishes. A completion whose
// transition was superseded by a later render never resolves; bound the wait
// with a context when that matters, or watch Superseded.
type Completion struct {
	done           chan struct{}
	once           sync.Once
	superseded     chan struct{}
	supersededOnce sync.Once
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{}), superseded: make(chan struct{})}
}

func resolvedCompletion() *Completion {
	c := newCompletion()
	c.resolve()
	return c
}

func (c *Completion) resolve() {
	c.once.Do(func() { close(c.done) })
}

func (c *Completion) supersede() {
	c.supersededOnce.Do(func() { close(c.superseded) })
}

// Done returns a channel closed on resolution
func (c *Completion) Done() <-chan struct{} { return c.done }

// Resolved reports whether the completion has resolved
func (c *Completion) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Superseded returns a channel closed when a later render interrupted the
// animation. Done is then never closed.
func (c *Completion) Superseded() <-chan struct{} { return c.superseded }

// Wait blocks until the completion resolves or ctx is done
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
