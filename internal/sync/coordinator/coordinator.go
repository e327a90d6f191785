package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
	"github.com/Girbilcannon/DecoToolsHelper/internal/otel"
	"github.com/Girbilcannon/DecoToolsHelper/internal/status"
	pkgsync "github.com/Girbilcannon/DecoToolsHelper/internal/sync"
	"github.com/Girbilcannon/DecoToolsHelper/internal/telemetry"
)

var _ Coordinator = (*DefaultCoordinator)(nil)

// DefaultCoordinator is the default implementation of Coordinator
type DefaultCoordinator struct {
	manager     pkgsync.Manager
	storagePath string
	lease       *buildLease
	lockPath    string

	statusPersistence status.StatusPersistence
	buildMetrics      *telemetry.BuildMetrics
	tracer            trace.Tracer

	buildOnStartup  bool
	refreshInterval time.Duration
	newBuildID      func() string

	building atomic.Bool

	// Lifecycle management
	mu         sync.Mutex
	runCtx     context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Option is a function that configures the coordinator
type Option func(*DefaultCoordinator)

// WithLockFile adds a cross-process file lock to the build lease
func WithLockFile(path string) Option {
	return func(c *DefaultCoordinator) {
		c.lockPath = path
	}
}

// WithStatusPersistence records the outcome of every build
func WithStatusPersistence(p status.StatusPersistence) Option {
	return func(c *DefaultCoordinator) {
		c.statusPersistence = p
	}
}

// WithBuildMetrics sets the build metrics for the coordinator
func WithBuildMetrics(metrics *telemetry.BuildMetrics) Option {
	return func(c *DefaultCoordinator) {
		c.buildMetrics = metrics
	}
}

// WithTracer records a span per build
func WithTracer(tracer trace.Tracer) Option {
	return func(c *DefaultCoordinator) {
		c.tracer = tracer
	}
}

// WithBuildOnStartup controls whether Start runs a build immediately
func WithBuildOnStartup(enabled bool) Option {
	return func(c *DefaultCoordinator) {
		c.buildOnStartup = enabled
	}
}

// WithRefreshInterval makes Start re-check the catalogs periodically. Zero disables it.
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *DefaultCoordinator) {
		c.refreshInterval = interval
	}
}

// New creates a coordinator running builds through manager. storagePath is
// only reported in results.
func New(manager pkgsync.Manager, storagePath string, opts ...Option) *DefaultCoordinator {
	c := &DefaultCoordinator{
		manager:        manager,
		storagePath:    storagePath,
		buildOnStartup: true,
		newBuildID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.lease = newBuildLease(c.lockPath)
	return c
}

// Building reports whether a build is running in this process
func (c *DefaultCoordinator) Building() bool {
	return c.building.Load()
}

// EnsureUpToDate brings the stored database in line with the remote catalogs.
// It returns immediately with Deferred set when another build holds the lease.
func (c *DefaultCoordinator) EnsureUpToDate(ctx context.Context, progress ProgressFunc) (result BuildResult) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	result = BuildResult{
		BuildID:     c.newBuildID(),
		StoragePath: c.storagePath,
	}

	release, ok, err := c.lease.tryAcquire()
	if err != nil {
		result.Error = fmt.Sprintf("Failed to acquire build lease: %v", err)
		result.Duration = time.Since(start)
		logger.Errorf("Build %s: %s", result.BuildID, result.Error)
		return result
	}
	if !ok {
		result.Success = true
		result.Skipped = true
		result.Deferred = true
		result.Duration = time.Since(start)
		c.buildMetrics.RecordBuildDeferred(ctx)
		logger.Infof("Build %s: another build is in progress, deferring", result.BuildID)
		return result
	}
	defer release()

	c.building.Store(true)
	defer c.building.Store(false)

	// Building starts here; every fault from now on becomes a failed result
	var span trace.Span = noop.Span{}
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Skipped = false
			result.Error = fmt.Sprintf("Unexpected failure during build: %v", r)
		}
		result.Duration = time.Since(start)
		c.finish(ctx, span, start, result)
		span.End()
	}()

	log, err := logr.FromContext(ctx)
	if err != nil {
		log = logger.Logr()
	}
	ctx = logr.NewContext(ctx, log.WithValues("buildId", result.BuildID))

	ctx, span = otel.StartSpan(ctx, c.tracer, "build.EnsureUpToDate",
		trace.WithAttributes(otel.AttrBuildID.String(result.BuildID)))

	c.recordBuilding(ctx, result.BuildID, start)

	c.build(ctx, progress, &result)
	return result
}

// build runs the stages in order and fills result. The database is only
// written after every earlier stage succeeded.
func (c *DefaultCoordinator) build(ctx context.Context, progress ProgressFunc, result *BuildResult) {
	report := func(stage Stage, msg string) {
		if progress != nil {
			progress(Progress{Stage: stage, Message: msg})
		}
	}
	fail := func(msg string) {
		result.Success = false
		result.Error = msg
	}

	report(StageFetchingIDs, "Fetching catalog identifiers")
	snapshot, serr := c.manager.FetchSnapshot(ctx)
	if serr != nil {
		fail(serr.Message)
		return
	}
	if err := ctx.Err(); err != nil {
		fail(fmt.Sprintf("Build cancelled: %v", err))
		return
	}

	report(StageComparing, "Comparing with stored database")
	reason, existing := c.manager.ShouldRebuild(ctx, snapshot)
	result.Reason = reason.String()

	if !reason.NeedsRebuild() {
		result.Success = true
		result.Skipped = true
		if existing != nil {
			result.TotalEntries = len(existing.Decorations)
		}
		report(StageDone, fmt.Sprintf("Decoration database is up to date (%d entries)", result.TotalEntries))
		return
	}
	if err := ctx.Err(); err != nil {
		fail(fmt.Sprintf("Build cancelled: %v", err))
		return
	}

	report(StageFetchingMetadata, fmt.Sprintf("Fetching %d guild and %d homestead records",
		snapshot.GuildUpgradeIDs.Len(), snapshot.HomesteadIDs.Len()))
	db, serr := c.manager.BuildDatabase(ctx, snapshot)
	if serr != nil {
		fail(serr.Message)
		return
	}
	if err := ctx.Err(); err != nil {
		fail(fmt.Sprintf("Build cancelled: %v", err))
		return
	}

	report(StageSaving, fmt.Sprintf("Saving %d decorations", len(db.Decorations)))
	if serr := c.manager.Persist(ctx, db); serr != nil {
		fail(serr.Message)
		return
	}

	result.Success = true
	result.TotalEntries = len(db.Decorations)
	report(StageDone, fmt.Sprintf("Decoration database rebuilt (%d entries)", result.TotalEntries))
}

// recordBuilding persists the Building phase so a crash mid-build is visible.
func (c *DefaultCoordinator) recordBuilding(ctx context.Context, buildID string, start time.Time) {
	if c.statusPersistence == nil {
		return
	}
	current, err := c.statusPersistence.LoadStatus(ctx)
	if err != nil {
		logger.Warnf("Build %s: failed to load build status: %v", buildID, err)
		current = &status.BuildStatus{}
	}
	current.Phase = status.BuildPhaseBuilding
	current.Message = "Build in progress"
	current.BuildID = buildID
	current.LastAttempt = &start
	if err := c.statusPersistence.SaveStatus(ctx, current); err != nil {
		logger.Warnf("Build %s: failed to persist building status: %v", buildID, err)
	}
}

// finish records metrics, span attributes and the final build status.
func (c *DefaultCoordinator) finish(ctx context.Context, span trace.Span, start time.Time, result BuildResult) {
	span.SetAttributes(
		otel.AttrBuildReason.String(result.Reason),
		otel.AttrBuildSkipped.Bool(result.Skipped),
		otel.AttrEntryCount.Int(result.TotalEntries),
	)
	if !result.Success {
		otel.RecordError(span, errors.New(result.Error))
	}

	c.buildMetrics.RecordBuildDuration(ctx, result.Duration, result.Success, result.Skipped)
	if result.Success {
		c.buildMetrics.RecordDecorationsTotal(ctx, int64(result.TotalEntries))
	}

	if c.statusPersistence != nil {
		c.saveFinalStatus(ctx, start, result)
	}
}

// saveFinalStatus records the outcome. A failing status backend is logged and
// never changes the build result.
func (c *DefaultCoordinator) saveFinalStatus(ctx context.Context, start time.Time, result BuildResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Build %s: failed to persist final build status: %v", result.BuildID, r)
		}
	}()

	// the build context may already be cancelled; the status write must still happen
	statusCtx := context.WithoutCancel(ctx)
	current, err := c.statusPersistence.LoadStatus(statusCtx)
	if err != nil {
		current = &status.BuildStatus{}
	}
	current.BuildID = result.BuildID
	current.Reason = result.Reason
	current.LastAttempt = &start
	current.DurationMillis = result.Duration.Milliseconds()

	if result.Success {
		now := time.Now()
		current.Phase = status.BuildPhaseComplete
		current.Message = "Decoration database rebuilt"
		if result.Skipped {
			current.Phase = status.BuildPhaseUpToDate
			current.Message = "Decoration database is up to date"
		}
		current.AttemptCount = 0
		current.LastSuccessTime = &now
		current.EntryCount = result.TotalEntries
	} else {
		current.Phase = status.BuildPhaseFailed
		current.Message = result.Error
		current.AttemptCount++
	}

	if err := c.statusPersistence.SaveStatus(statusCtx, current); err != nil {
		logger.Errorf("Build %s: failed to persist final build status: %v", result.BuildID, err)
	}
}
