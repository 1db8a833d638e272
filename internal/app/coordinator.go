package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rbright/mediaosd/internal/display"
	"github.com/rbright/mediaosd/internal/fsm"
	"github.com/rbright/mediaosd/internal/ipc"
	"github.com/rbright/mediaosd/internal/lock"
	"github.com/rbright/mediaosd/internal/logging"
	"github.com/rbright/mediaosd/internal/session"
)

const defaultRetryDelay = 50 * time.Millisecond

var errSessionExpired = errors.New("session expired")

// Coordinator decides whether this invocation owns the OSD session or relays its
// label to the process that does.
type Coordinator struct {
	LockPath     string
	SocketPath   string
	Duration     time.Duration
	ReadTimeout  time.Duration
	SendTimeout  time.Duration
	PollInterval time.Duration
	// RetryAsOwner allows one fresh lock attempt when the owner holds the lock but
	// is not reachable on the socket (it is starting up or just expired).
	RetryAsOwner bool
	RetryDelay   time.Duration

	NewRenderer func() (display.Renderer, error)
	Sleeper     session.Sleeper
	Logger      *slog.Logger
}

// Outcome describes how an invocation left the session.
type Outcome struct {
	Role      fsm.State
	SessionID string
	Retried   bool
	Refreshes int
}

// Run takes the role for label and blocks until that role is done: a client returns
// after delivery, an owner after its lifetime expires.
func (c Coordinator) Run(ctx context.Context, label string) (Outcome, error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var (
		out   Outcome
		state = fsm.StateStarting
	)
	step := func(event fsm.Event) error {
		next, err := fsm.Transition(state, event)
		if err != nil {
			return err
		}
		logger.Debug("role transition", "from", state, "event", event, "to", next)
		state = next
		return nil
	}
	fail := func(err error) (Outcome, error) {
		_ = step(fsm.EventFail)
		out.Role = state
		return out, err
	}

	for {
		held, err := lock.TryAcquire(c.LockPath)
		switch {
		case err == nil:
			if err := step(fsm.EventAcquire); err != nil {
				_ = held.Release()
				return fail(err)
			}
			out.SessionID = ulid.Make().String()
			refreshes, err := c.runOwner(ctx, held, label, logger.With("role", "owner", "session_id", out.SessionID))
			out.Refreshes = refreshes
			if err != nil {
				return fail(err)
			}
			out.Role = fsm.StateOwner
			if err := step(fsm.EventExpire); err != nil {
				return fail(err)
			}
			return out, nil

		case errors.Is(err, lock.ErrContended):
			if err := step(fsm.EventContend); err != nil {
				return fail(err)
			}
			clientLog := logger.With("role", "client")
			sendErr := ipc.Send(ctx, c.SocketPath, label, c.sendTimeout())
			if sendErr == nil {
				clientLog.Info("refresh delivered", "label", label)
				out.Role = fsm.StateClient
				if err := step(fsm.EventDeliver); err != nil {
					return fail(err)
				}
				return out, nil
			}
			if !errors.Is(sendErr, ipc.ErrOwnerUnreachable) || !c.RetryAsOwner || out.Retried {
				clientLog.Error("refresh delivery failed", "error", sendErr.Error())
				return fail(sendErr)
			}
			clientLog.Warn("owner unreachable; retrying lock once", "error", sendErr.Error())
			out.Retried = true
			if err := step(fsm.EventRetry); err != nil {
				return fail(err)
			}
			if err := sleepCtx(ctx, c.retryDelay()); err != nil {
				return fail(err)
			}

		default:
			logger.Error("session lock unavailable", "path", c.LockPath, "error", err.Error())
			return fail(err)
		}
	}
}

// runOwner serves refreshes, counts down the lifetime and drives the display until
// expiry. Cleanup order: display cleared, socket unlinked, lock released.
func (c Coordinator) runOwner(ctx context.Context, held *lock.Lock, label string, logger *slog.Logger) (int, error) {
	defer func() {
		if err := held.Release(); err != nil {
			logger.Warn("release session lock failed", "error", err.Error())
		}
	}()

	listener, err := ipc.Listen(c.SocketPath)
	if err != nil {
		logger.Error("bind refresh socket failed", "path", c.SocketPath, "error", err.Error())
		return 0, err
	}
	defer func() {
		_ = listener.Close()
		if err := os.Remove(c.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("remove refresh socket failed", "path", c.SocketPath, "error", err.Error())
		}
	}()

	renderer := c.renderer(logger)
	state := session.NewState(label)
	supervisor := session.NewSupervisor(state, c.Duration, logger).WithSleeper(c.Sleeper)
	loop := display.NewLoop(state, renderer, c.PollInterval, logger)

	logger.Info("session started",
		"label", label,
		"lock", held.Path(),
		"socket", c.SocketPath,
		"duration", c.Duration.String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return ipc.Serve(groupCtx, listener, state, ipc.ServeOptions{
			ReadTimeout: c.ReadTimeout,
			Logger:      logger,
		})
	})
	group.Go(func() error {
		if err := supervisor.Run(groupCtx); err != nil {
			return err
		}
		return errSessionExpired
	})
	group.Go(func() error {
		return loop.Run(groupCtx)
	})

	err = group.Wait()
	snap := state.Snapshot()
	if errors.Is(err, errSessionExpired) {
		logger.Info("session ended", "refreshes", snap.Refreshes, "label", snap.Label)
		return snap.Refreshes, nil
	}
	if err == nil {
		err = ctx.Err()
	}
	return snap.Refreshes, fmt.Errorf("owner session: %w", err)
}

// renderer builds the configured backend. A backend that cannot start still leaves a
// working session: refreshes and lifetime keep their semantics without a visible OSD.
func (c Coordinator) renderer(logger *slog.Logger) display.Renderer {
	if c.NewRenderer == nil {
		return display.NopRenderer{}
	}
	r, err := c.NewRenderer()
	if err != nil {
		logger.Warn("display backend unavailable; continuing without OSD", "error", err.Error())
		return display.NopRenderer{}
	}
	return r
}

func (c Coordinator) sendTimeout() time.Duration {
	if c.SendTimeout > 0 {
		return c.SendTimeout
	}
	return time.Second
}

func (c Coordinator) retryDelay() time.Duration {
	if c.RetryDelay > 0 {
		return c.RetryDelay
	}
	return defaultRetryDelay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
