package coordinator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"
)

// LockFileName is the cross-process lock file kept in the data directory.
const LockFileName = "build.lock"

// buildLease grants exclusive access to run a build. The file lock is optional.
type buildLease struct {
	sem  *semaphore.Weighted
	lock *flock.Flock
}

func newBuildLease(lockPath string) *buildLease {
	l := &buildLease{sem: semaphore.NewWeighted(1)}
	if lockPath != "" {
		l.lock = flock.New(lockPath)
	}
	return l
}

// tryAcquire never blocks. It returns a release function when the lease was
// granted, or ok=false when another build holds it.
func (l *buildLease) tryAcquire() (release func(), ok bool, err error) {
	if !l.sem.TryAcquire(1) {
		return nil, false, nil
	}
	if l.lock == nil {
		return func() { l.sem.Release(1) }, true, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.lock.Path()), 0750); err != nil {
		l.sem.Release(1)
		return nil, false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	locked, err := l.lock.TryLock()
	if err != nil {
		l.sem.Release(1)
		return nil, false, fmt.Errorf("failed to lock %s: %w", l.lock.Path(), err)
	}
	if !locked {
		l.sem.Release(1)
		return nil, false, nil
	}

	return func() {
		_ = l.lock.Unlock()
		l.sem.Release(1)
	}, true, nil
}
