// Package lockfile provides the process-wide exclusivity lock guarding a
// rotation run. The lock is a file created atomically (O_EXCL) holding the
// owning process id; at most one exists system-wide at a time.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
)

// LockHeldError is returned when the lock is already claimed by another run.
type LockHeldError struct {
	Path   string
	Holder string // pid of the holder, or "unknown" if unreadable
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("lock %s already held by process %s", e.Path, e.Holder)
}

// Lock is a held exclusivity lock. Release it exactly once at normal
// completion; an interrupt or terminate signal releases it automatically.
type Lock struct {
	path    string
	sigs    chan os.Signal
	done    chan struct{}
	release sync.Once
}

// Acquire atomically claims the lock file at path. If the file already
// exists the claim fails with *LockHeldError and nothing else happens. On
// success the current pid is persisted and a signal handler is installed
// that removes the marker and aborts on SIGINT/SIGTERM.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &LockHeldError{Path: path, Holder: holderPid(path)}
		}
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write lock %s: %w", path, err)
	}

	l := &Lock{
		path: path,
		sigs: make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(l.sigs, os.Interrupt, syscall.SIGTERM)
	go l.watch()
	return l, nil
}

// watch performs the emergency release: on interrupt or terminate the marker
// is removed and the process aborts immediately. Nothing is rolled back.
func (l *Lock) watch() {
	select {
	case sig := <-l.sigs:
		log.Error().Str("signal", sig.String()).Msg("interrupted, releasing lock and aborting")
		os.Remove(l.path)
		os.Exit(1)
	case <-l.done:
	}
}

// Release disarms the signal handler and removes the marker. Idempotent.
func (l *Lock) Release() {
	l.release.Do(func() {
		signal.Stop(l.sigs)
		close(l.done)
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", l.path).Msg("could not remove lock file")
		}
	})
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

func holderPid(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	s := strings.TrimSpace(string(data))
	if _, err := strconv.Atoi(s); err != nil {
		return "unknown"
	}
	return s
}
