// Package display polls the shared session state and keeps the on-screen label current.
package display

import (
	"context"
	"log/slog"
	"time"

	"github.com/rbright/mediaosd/internal/session"
)

const (
	// DefaultPollInterval matches the refresh cadence of the overlay.
	DefaultPollInterval = 10 * time.Millisecond
	dispatchTimeout     = 400 * time.Millisecond
)

// Snapshotter is the read-only view of the session the loop needs.
type Snapshotter interface {
	Snapshot() session.Snapshot
}

// Loop re-renders whenever the shared label changes.
type Loop struct {
	state    Snapshotter
	renderer Renderer
	interval time.Duration
	logger   *slog.Logger
}

// NewLoop creates a display loop. A non-positive interval uses DefaultPollInterval.
func NewLoop(state Snapshotter, renderer Renderer, interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Loop{state: state, renderer: renderer, interval: interval, logger: logger}
}

// Run renders the initial label, then polls until ctx ends or the session expires.
// The renderer is cleared before returning.
func (l *Loop) Run(ctx context.Context) error {
	defer l.clear(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var (
		rendered string
		drawn    bool
	)
	for {
		snap := l.state.Snapshot()
		if snap.Expired {
			return nil
		}
		if !drawn || snap.Label != rendered {
			l.render(ctx, snap)
			rendered = snap.Label
			drawn = true
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// render is best effort: a failed dispatch is logged and the loop keeps polling.
func (l *Loop) render(ctx context.Context, snap session.Snapshot) {
	runCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	if err := l.renderer.Render(runCtx, snap.Label); err != nil {
		l.log("display render failed", err)
		return
	}
	if l.logger != nil {
		l.logger.Debug("display rendered", "label", snap.Label, "counter", snap.Counter)
	}
}

func (l *Loop) clear(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()
	if err := l.renderer.Clear(runCtx); err != nil {
		l.log("display clear failed", err)
	}
}

func (l *Loop) log(message string, err error) {
	if l.logger == nil || err == nil {
		return
	}
	l.logger.Debug(message, "error", err.Error())
}
