// Package group runs a set of goroutines that live and die together.
package group

import (
	"context"
	"sync"
)

// A G runs goroutines that share a common context. When any member returns,
// the context is canceled and the remaining members are expected to exit.
type G struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   sync.WaitGroup

	errOnce sync.Once
	err     error
}

// New returns an empty group derived from ctx.
func New(ctx context.Context) *G {
	ctx, cancel := context.WithCancel(ctx)
	return &G{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add starts fn as a member of the group. fn must return when the context
// passed to it is canceled.
func (g *G) Add(fn func(context.Context) error) {
	g.done.Add(1)
	go func() {
		defer g.done.Done()
		defer g.cancel()
		if err := fn(g.ctx); err != nil {
			g.errOnce.Do(func() { g.err = err })
		}
	}()
}

// Wait blocks until every member has exited and returns the first non-nil
// error returned by a member, if any.
func (g *G) Wait() error {
	g.done.Wait()
	g.errOnce.Do(func() {
		// synchronises on the errOnce mutex before reading err
	})
	return g.err
}
