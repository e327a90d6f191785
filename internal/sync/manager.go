package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
	"github.com/Girbilcannon/DecoToolsHelper/internal/decorations"
	"github.com/Girbilcannon/DecoToolsHelper/internal/otel"
	"github.com/Girbilcannon/DecoToolsHelper/internal/store"
)

// Build stages reported in Error.Stage
const (
	StageFetchIDs     = "fetch-ids"
	StageFetchRecords = "fetch-records"
	StageMerge        = "merge"
	StagePersist      = "persist"
)

// Error represents a failed build stage
type Error struct {
	Err     error
	Message string
	Stage   string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks -source=manager.go Manager

// Manager runs the individual stages of a decoration database build
type Manager interface {
	// FetchSnapshot fetches the identifier sets of both catalogs
	FetchSnapshot(ctx context.Context) (decorations.Snapshot, *Error)

	// ShouldRebuild loads the stored database and compares it with snapshot.
	// The stored database is returned when one is usable, whatever the verdict.
	ShouldRebuild(ctx context.Context, snapshot decorations.Snapshot) (Reason, *decorations.Database)

	// BuildDatabase fetches the records named by snapshot and merges them
	BuildDatabase(ctx context.Context, snapshot decorations.Snapshot) (*decorations.Database, *Error)

	// Persist atomically stores db
	Persist(ctx context.Context, db *decorations.Database) *Error
}

var _ Manager = (*DefaultManager)(nil)

// DefaultManager is the default implementation of Manager
type DefaultManager struct {
	fetcher        catalog.Fetcher
	store          store.Store
	guild          catalog.Source
	homestead      catalog.Source
	changeDetector ChangeDetector
	tracer         trace.Tracer
	now            func() time.Time
}

// ManagerOption configures a DefaultManager
type ManagerOption func(*DefaultManager)

// WithTracer records a span for every stage
func WithTracer(tracer trace.Tracer) ManagerOption {
	return func(m *DefaultManager) {
		m.tracer = tracer
	}
}

// WithChangeDetector replaces the set-equality detector
func WithChangeDetector(d ChangeDetector) ManagerOption {
	return func(m *DefaultManager) {
		m.changeDetector = d
	}
}

// WithClock sets the source of database generation timestamps
func WithClock(now func() time.Time) ManagerOption {
	return func(m *DefaultManager) {
		m.now = now
	}
}

// NewDefaultManager creates a manager reading guild and homestead through fetcher
// and persisting to st.
func NewDefaultManager(
	fetcher catalog.Fetcher, st store.Store, guild, homestead catalog.Source, opts ...ManagerOption,
) *DefaultManager {
	m := &DefaultManager{
		fetcher:        fetcher,
		store:          st,
		guild:          guild,
		homestead:      homestead,
		changeDetector: DefaultChangeDetector{},
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchSnapshot fetches both identifier lists concurrently. If either fails
// the other is cancelled and no snapshot is returned.
func (m *DefaultManager) FetchSnapshot(ctx context.Context) (decorations.Snapshot, *Error) {
	ctxLogger := logr.FromContextOrDiscard(ctx)

	var snapshot decorations.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := m.fetchIDs(gctx, m.guild)
		snapshot.GuildUpgradeIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := m.fetchIDs(gctx, m.homestead)
		snapshot.HomesteadIDs = ids
		return err
	})

	if err := g.Wait(); err != nil {
		ctxLogger.Error(err, "Failed to fetch catalog identifiers")
		return decorations.Snapshot{}, &Error{
			Err:     err,
			Message: fmt.Sprintf("Failed to fetch catalog identifiers: %v", err),
			Stage:   StageFetchIDs,
		}
	}

	ctxLogger.Info("Fetched catalog identifiers",
		"guildIds", snapshot.GuildUpgradeIDs.Len(),
		"homesteadIds", snapshot.HomesteadIDs.Len())
	return snapshot, nil
}

func (m *DefaultManager) fetchIDs(ctx context.Context, src catalog.Source) (catalog.IDSet, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "catalog.FetchIDs",
		trace.WithAttributes(otel.AttrCatalog.String(string(src.Kind))))
	defer span.End()

	ids, err := m.fetcher.FetchIDs(ctx, src)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(otel.AttrIDCount.Int(ids.Len()))
	return ids, nil
}

// ShouldRebuild loads the stored database and asks the change detector about it
func (m *DefaultManager) ShouldRebuild(
	ctx context.Context, snapshot decorations.Snapshot,
) (Reason, *decorations.Database) {
	ctxLogger := logr.FromContextOrDiscard(ctx)

	existing, ok := m.store.TryLoad(ctx)
	if !ok {
		existing = nil
	}
	reason := m.changeDetector.Evaluate(existing, snapshot.GuildUpgradeIDs, snapshot.HomesteadIDs)

	if existing != nil && reason.NeedsRebuild() {
		added, removed := snapshot.GuildUpgradeIDs.Diff(existing.SourceSnapshot.GuildUpgradeIDs)
		hAdded, hRemoved := snapshot.HomesteadIDs.Diff(existing.SourceSnapshot.HomesteadIDs)
		ctxLogger.Info("Catalogs drifted from stored database",
			"guildAdded", added.Len(), "guildRemoved", removed.Len(),
			"homesteadAdded", hAdded.Len(), "homesteadRemoved", hRemoved.Len())
	}
	ctxLogger.Info("ShouldRebuild returning", "needsRebuild", reason.NeedsRebuild(), "reason", reason.String())
	return reason, existing
}

// BuildDatabase fetches the records of both catalogs concurrently and merges them
func (m *DefaultManager) BuildDatabase(
	ctx context.Context, snapshot decorations.Snapshot,
) (*decorations.Database, *Error) {
	ctxLogger := logr.FromContextOrDiscard(ctx)

	var guild, homestead []catalog.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := m.fetchRecords(gctx, m.guild, snapshot.GuildUpgradeIDs)
		guild = recs
		return err
	})
	g.Go(func() error {
		recs, err := m.fetchRecords(gctx, m.homestead, snapshot.HomesteadIDs)
		homestead = recs
		return err
	})

	if err := g.Wait(); err != nil {
		ctxLogger.Error(err, "Failed to fetch catalog records")
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("Failed to fetch catalog records: %v", err),
			Stage:   StageFetchRecords,
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &Error{Err: err, Message: fmt.Sprintf("Build cancelled before merge: %v", err), Stage: StageMerge}
	}

	entries := decorations.Merge(guild, homestead)
	db := decorations.NewDatabase(snapshot, entries, m.now())

	ctxLogger.Info("Merged decoration database",
		"guildRecords", len(guild), "homesteadRecords", len(homestead), "entries", len(entries))
	return db, nil
}

func (m *DefaultManager) fetchRecords(
	ctx context.Context, src catalog.Source, ids catalog.IDSet,
) ([]catalog.Record, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "catalog.FetchRecords",
		trace.WithAttributes(otel.AttrCatalog.String(string(src.Kind)), otel.AttrIDCount.Int(ids.Len())))
	defer span.End()

	recs, err := m.fetcher.FetchRecords(ctx, src, ids)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(otel.AttrRecordCount.Int(len(recs)))
	return recs, nil
}

// Persist stores db using the store
func (m *DefaultManager) Persist(ctx context.Context, db *decorations.Database) *Error {
	ctxLogger := logr.FromContextOrDiscard(ctx)

	var entries int
	if db != nil {
		entries = len(db.Decorations)
	}
	ctx, span := otel.StartSpan(ctx, m.tracer, "store.Save",
		trace.WithAttributes(otel.AttrEntryCount.Int(entries)))
	defer span.End()

	if err := m.store.Save(ctx, db); err != nil {
		otel.RecordError(span, err)
		ctxLogger.Error(err, "Failed to store decoration database")
		return &Error{
			Err:     err,
			Message: fmt.Sprintf("Storage failed: %v", err),
			Stage:   StagePersist,
		}
	}

	ctxLogger.Info("Decoration database stored", "path", m.store.Path(), "entries", entries)
	return nil
}
