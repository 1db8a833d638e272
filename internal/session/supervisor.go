package session

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Supervisor counts the session down, one configured duration per cycle.
type Supervisor struct {
	state    *State
	duration time.Duration
	logger   *slog.Logger
	sleep    Sleeper
}

// NewSupervisor builds a supervisor for state using wall-clock sleeps.
func NewSupervisor(state *State, duration time.Duration, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Supervisor{
		state:    state,
		duration: duration,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// WithSleeper swaps the cycle sleeper.
func (s *Supervisor) WithSleeper(sleep Sleeper) *Supervisor {
	if sleep != nil {
		s.sleep = sleep
	}
	return s
}

// Run sleeps and decrements until the counter reaches zero, then returns nil so the
// caller can end the owner process. It returns ctx.Err() when cancelled first.
func (s *Supervisor) Run(ctx context.Context) error {
	cycles := 0
	for s.state.Counter() != 0 {
		if err := s.sleep(ctx, s.duration); err != nil {
			return err
		}
		cycles++
		left := s.state.tick()
		s.logger.Debug("lifetime cycle elapsed", "cycle", cycles, "counter", left)
	}
	s.logger.Info("session expired", "cycles", cycles, "duration", s.duration.String())
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
