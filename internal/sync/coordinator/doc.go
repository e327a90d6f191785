// Package coordinator owns the end-to-end decoration database build.
//
// It sits on top of internal/sync.Manager and handles:
//
//   - Single-flight execution through a build lease
//   - The build sequence: fetch identifiers, compare, fetch metadata, merge, persist
//   - Progress reporting and BuildResult construction
//   - The startup build, optional periodic refresh, and manual triggers
//   - Build status persistence, metrics and spans
//
// # Core API
//
//	type Coordinator interface {
//	    EnsureUpToDate(ctx context.Context, progress ProgressFunc) BuildResult
//	    Start(ctx context.Context) error
//	    Trigger() error
//	    Stop() error
//	    Building() bool
//	}
//
// EnsureUpToDate runs a build on the calling goroutine and never panics or
// returns an error: every failure is reported through BuildResult. Start and
// Trigger run builds on background goroutines and return immediately.
//
// # Build Lease
//
// The lease combines an in-process semaphore of weight one with a file lock
// (build.lock) in the data directory, so two helper processes sharing a data
// directory cannot interleave writes either. A call that finds the lease taken
// returns at once with Deferred set; it does not wait.
//
// # Usage Example
//
//	coord := coordinator.New(manager, st.Path(),
//	    coordinator.WithLockFile(filepath.Join(dataDir, coordinator.LockFileName)),
//	    coordinator.WithStatusPersistence(status.NewFileStatusPersistence(dataDir)),
//	)
//	if err := coord.Start(ctx); err != nil {
//	    return err
//	}
//	defer coord.Stop()
package coordinator
