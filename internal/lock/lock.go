// Package lock provides the process-scoped exclusive claim that decides OSD session ownership.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	// ErrContended reports that another live process holds the claim.
	ErrContended = errors.New("session lock held by another process")
	// ErrUnavailable reports that the lock file could not be opened or created at all.
	ErrUnavailable = errors.New("session lock unavailable")
)

// UnavailableError carries the underlying open/create failure.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("open session lock %s: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Lock is a held flock claim. The kernel drops it when the holding process exits.
type Lock struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// TryAcquire attempts a non-blocking exclusive claim on path, creating the file when absent.
func TryAcquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrContended
		}
		return nil, &UnavailableError{Path: path, Err: fmt.Errorf("flock: %w", err)}
	}

	return &Lock{path: path, file: f}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the claim. Safe to call more than once.
func (l *Lock) Release() error {
	l.mu.Lock()
	f := l.file
	l.file = nil
	l.mu.Unlock()
	if f == nil {
		return nil
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("unlock %s: %w", l.path, err)
	}
	return f.Close()
}
