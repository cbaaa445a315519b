package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/core/events"
	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/frahmantamala/online-school/pkg/metrics"
)

type SessionPruner interface {
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionReaper periodically removes sessions older than the token TTL.
type SessionReaper struct {
	sessions SessionPruner
	ttl      time.Duration
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
	events   events.Publisher
}

type ReaperOption func(*SessionReaper)

func WithReaperClock(now func() time.Time) ReaperOption {
	return func(r *SessionReaper) {
		if now != nil {
			r.now = now
		}
	}
}

func WithReaperLogger(lg *slog.Logger) ReaperOption {
	return func(r *SessionReaper) {
		if lg != nil {
			r.logger = lg
		}
	}
}

// WithReaperEvents publishes a sessions.reaped event after sweeps that removed rows.
func WithReaperEvents(p events.Publisher) ReaperOption {
	return func(r *SessionReaper) {
		r.events = p
	}
}

func NewSessionReaper(sessions SessionPruner, ttl, interval, timeout time.Duration, opts ...ReaperOption) *SessionReaper {
	if ttl <= 0 {
		ttl = internal.DefaultTokenTTL
	}
	if interval <= 0 {
		interval = internal.DefaultReaperInterval
	}
	if timeout <= 0 {
		timeout = internal.DefaultReaperTimeout
	}
	r := &SessionReaper{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger.LoggerWrapper(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sweep deletes every session created before now - ttl and reports how many went.
func (r *SessionReaper) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.ttl)
	n, err := r.sessions.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		metrics.ReaperFailed()
		return 0, fmt.Errorf("delete sessions before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	metrics.SessionsReaped(n)
	if n > 0 && r.events != nil {
		if perr := r.events.Publish(ctx, events.NewSessionsReapedEvent(n, cutoff)); perr != nil {
			r.logger.Warn("failed to publish reaper event", "error", perr)
		}
	}
	return n, nil
}

// Run sweeps on every tick until ctx is done. Failures are logged and the
// loop keeps going.
func (r *SessionReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("session reaper started", "interval", r.interval.String(), "ttl", r.ttl.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("session reaper stopped")
			return
		case <-ticker.C:
			tickCtx, cancel := internal.WithTimeout(ctx, r.timeout)
			n, err := r.Sweep(tickCtx)
			cancel()
			if err != nil {
				r.logger.Error("session reaper sweep failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.Info("session reaper removed expired sessions", "count", n)
			}
		}
	}
}

// Start runs the loop on its own goroutine.
func (r *SessionReaper) Start(ctx context.Context) {
	go r.Run(ctx)
}
