package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLockHeld reports that another process holds the run lock.
var ErrLockHeld = errors.New("run lock held by another process")

// RunLock is an advisory lock keyed on an output path.
type RunLock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for target inside dir.
func LockPath(dir, target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve lock target: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock"), nil
}

// AcquireRunLock takes a non-blocking lock for target. It fails with
// ErrLockHeld when another invocation is writing the same outputs.
func AcquireRunLock(dir, target string) (*RunLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory %q: %w", dir, err)
	}
	path, err := LockPath(dir, target)
	if err != nil {
		return nil, err
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (outputs for %s)", ErrLockHeld, path, target)
	}
	return &RunLock{path: path, lock: lock}, nil
}

// Path returns the lock file path.
func (l *RunLock) Path() string { return l.path }

// Release unlocks the run lock. A nil lock is a no-op.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
