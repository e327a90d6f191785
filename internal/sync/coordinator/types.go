package coordinator

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBuildInProgress is returned by Trigger while a build is running.
	ErrBuildInProgress = errors.New("a decoration build is already in progress")

	// ErrNotStarted is returned by Trigger before Start or after Stop.
	ErrNotStarted = errors.New("coordinator is not running")
)

// Stage names a step of the build for progress reporting.
type Stage string

// Build stages, in execution order.
const (
	StageFetchingIDs      Stage = "fetching-ids"
	StageComparing        Stage = "comparing"
	StageFetchingMetadata Stage = "fetching-metadata"
	StageSaving           Stage = "saving"
	StageDone             Stage = "done"
)

// Progress is reported to the caller as the build advances.
type Progress struct {
	Stage   Stage
	Message string
}

// ProgressFunc receives progress updates. It is called on the build goroutine
// and must not block.
type ProgressFunc func(Progress)

// BuildResult is the outcome of one EnsureUpToDate call.
type BuildResult struct {
	// Success is false only when the build failed. A skipped or deferred build is successful.
	Success bool `json:"success"`
	// Skipped is true when no new database was written.
	Skipped bool `json:"skipped"`
	// Deferred is true when another build held the lease and this call did nothing.
	Deferred bool `json:"deferred"`
	// TotalEntries is the entry count of the database that is now stored.
	TotalEntries int `json:"totalEntries"`
	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`
	// StoragePath is where the database lives.
	StoragePath string `json:"storagePath"`
	// Reason is the change detector verdict, empty when the build stopped earlier.
	Reason string `json:"reason,omitempty"`
	// BuildID correlates the result with log lines and spans.
	BuildID string `json:"buildId"`
	// Duration is the wall time of the call.
	Duration time.Duration `json:"duration"`
}

// Coordinator runs decoration database builds.
type Coordinator interface {
	// EnsureUpToDate runs one build on the calling goroutine.
	EnsureUpToDate(ctx context.Context, progress ProgressFunc) BuildResult

	// Start runs the startup build and the refresh loop in the background.
	Start(ctx context.Context) error

	// Trigger starts a build in the background.
	Trigger() error

	// Stop cancels running builds and waits for background goroutines.
	Stop() error

	// Building reports whether a build holds the lease in this process.
	Building() bool
}
