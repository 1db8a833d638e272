package ipc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// Listen binds the rendezvous socket at path, first removing a stale socket left by
// an owner that exited without cleanup. Callers must hold the session lock: only a
// lock holder ever binds path, so any socket found there is stale.
func Listen(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: ensure socket dir: %w", ErrBindFailure, err)
	}
	if err := removeStale(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBindFailure, err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("%w: listen unix %s: %w", ErrBindFailure, path, err)
	}
	_ = os.Chmod(path, 0o600)
	return listener, nil
}

// removeStale unlinks a leftover socket. Anything that is not a socket is left alone.
func removeStale(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket %s: %w", path, err)
	}
	return nil
}
