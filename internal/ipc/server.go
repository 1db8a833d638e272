package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

const defaultReadTimeout = 500 * time.Millisecond

// Handler applies one decoded refresh to the owner session.
type Handler interface {
	Refresh(label string) bool
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(string) bool

func (f HandlerFunc) Refresh(label string) bool {
	return f(label)
}

// ServeOptions tunes the owner listener.
type ServeOptions struct {
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

// Serve accepts refresh connections one at a time until context cancellation or
// listener close. Per-connection failures are logged and never end the loop.
func Serve(ctx context.Context, listener net.Listener, handler Handler, opts ServeOptions) error {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			logger.Warn("accept refresh connection failed", "error", err.Error())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}

		label, err := readRefresh(conn, opts.ReadTimeout)
		_ = conn.Close()
		if err != nil {
			if errors.Is(err, errEmptyPayload) {
				logger.Debug("refresh dropped", "error", err.Error())
			} else {
				logger.Warn("refresh dropped", "error", err.Error())
			}
			continue
		}

		if !handler.Refresh(label) {
			logger.Debug("refresh ignored by session", "label", label)
			continue
		}
		logger.Info("refresh received", "label", label)
	}
}

// readRefresh reads one message until EOF, bounded by size and deadline.
func readRefresh(conn net.Conn, timeout time.Duration) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", fmt.Errorf("set read deadline: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(conn, MaxPayloadBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrDecode, err)
	}
	return DecodePayload(data)
}
