// Package sweeper runs the recurring cleanup pass that removes stale
// orphaned attachments and expired tokens.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/hoaxify/hoax/attachments"
	"github.com/hoaxify/hoax/tokens"
)

// DefaultInterval is the default time between sweep passes.
const DefaultInterval = time.Hour

// An AttachmentPurger removes orphaned attachments older than retention.
type AttachmentPurger interface {
	PurgeStale(ctx context.Context, retention time.Duration) error
}

// A TokenPurger removes tokens unused for longer than maxIdle.
type TokenPurger interface {
	PurgeExpired(ctx context.Context, maxIdle time.Duration) error
}

// A Sweeper owns the process-wide cleanup timer. Start begins sweeping,
// once, no matter how many times it is called; Stop cancels the timer and
// waits for the loop to exit.
type Sweeper struct {
	attachments AttachmentPurger
	tokens      TokenPurger
	logger      *slog.Logger

	interval  time.Duration
	retention time.Duration
	maxIdle   time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// An Option configures a Sweeper.
type Option func(*Sweeper)

// WithInterval sets the time between sweep passes.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) { s.interval = d }
}

// WithRetention sets how long orphaned attachments are kept.
func WithRetention(d time.Duration) Option {
	return func(s *Sweeper) { s.retention = d }
}

// WithTokenMaxIdle sets how long unused tokens are kept.
func WithTokenMaxIdle(d time.Duration) Option {
	return func(s *Sweeper) { s.maxIdle = d }
}

// New returns a stopped Sweeper.
func New(att AttachmentPurger, tok TokenPurger, logger *slog.Logger, opts ...Option) *Sweeper {
	s := &Sweeper{
		attachments: att,
		tokens:      tok,
		logger:      logger,
		interval:    DefaultInterval,
		retention:   attachments.DefaultRetention,
		maxIdle:     tokens.MaxIdle,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs one sweep immediately, then one per interval until Stop is
// called. Calling Start again is a no-op; there is never more than one
// timer.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
}

// Stop cancels the timer and waits for any in-flight sweep to finish.
// Stopping a Sweeper that was never started is a no-op.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one cleanup pass. Errors, and even panics, are logged and
// discarded so that one bad task cannot stop the other task in this pass
// or the ticks that follow.
func (s *Sweeper) sweep(ctx context.Context) {
	s.runTask(ctx, "purge stale attachments", func(ctx context.Context) error {
		return s.attachments.PurgeStale(ctx, s.retention)
	})
	s.runTask(ctx, "purge expired tokens", func(ctx context.Context) error {
		return s.tokens.PurgeExpired(ctx, s.maxIdle)
	})
}

func (s *Sweeper) runTask(ctx context.Context, name string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sweep task panicked", "task", name, "panic", fmt.Sprint(r))
		}
	}()
	if err := fn(ctx); err != nil {
		s.logger.Error("sweep task failed", "task", name, "err", err)
	}
}
