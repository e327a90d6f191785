package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
	"github.com/Girbilcannon/DecoToolsHelper/internal/decorations"
	"github.com/Girbilcannon/DecoToolsHelper/internal/service"
	"github.com/Girbilcannon/DecoToolsHelper/internal/status"
	"github.com/Girbilcannon/DecoToolsHelper/internal/store"
	storemocks "github.com/Girbilcannon/DecoToolsHelper/internal/store/mocks"
	"github.com/Girbilcannon/DecoToolsHelper/internal/sync/coordinator"
)

func intPtr(v int) *int { return &v }

func testDatabase(generated time.Time) *decorations.Database {
	return decorations.NewDatabase(
		decorations.Snapshot{GuildUpgradeIDs: catalog.NewIDSet(1), HomesteadIDs: catalog.NewIDSet(10)},
		[]decorations.Entry{{Name: "Chair", GuildUpgradeID: intPtr(1), HomesteadID: intPtr(10)}},
		generated,
	)
}

type fakeTrigger struct {
	err   error
	calls int
}

func (f *fakeTrigger) Trigger() error {
	f.calls++
	return f.err
}

func TestNew_RequiresStore(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), nil)
	assert.EqualError(t, err, "store is required")
}

func TestCheckReadiness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewFileStore(t.TempDir())

	svc, err := New(ctx, st)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.CheckReadiness(ctx), service.ErrNotReady)

	_, err = svc.GetDatabase(ctx)
	assert.ErrorIs(t, err, service.ErrNotReady)

	require.NoError(t, st.Save(ctx, testDatabase(time.Now())))
	assert.NoError(t, svc.CheckReadiness(ctx))

	db, err := svc.GetDatabase(ctx)
	require.NoError(t, err)
	assert.Len(t, db.Decorations, 1)
}

func TestLookupDecoration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewFileStore(t.TempDir())
	require.NoError(t, st.Save(ctx, testDatabase(time.Now())))

	svc, err := New(ctx, st)
	require.NoError(t, err)

	entry, err := svc.LookupDecoration(ctx, "  CHAIR ")
	require.NoError(t, err)
	assert.Equal(t, "Chair", entry.Name)
	assert.Equal(t, intPtr(10), entry.HomesteadID)

	_, err = svc.LookupDecoration(ctx, "Throne")
	assert.ErrorIs(t, err, service.ErrDecorationNotFound)
}

func TestLoad_CachesUntilExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	st := storemocks.NewMockStore(ctrl)
	first := testDatabase(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	second := testDatabase(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	gomock.InOrder(
		st.EXPECT().TryLoad(gomock.Any()).Return(first, true),
		st.EXPECT().TryLoad(gomock.Any()).Return(second, true),
	)

	svc, err := New(ctx, st, WithCacheDuration(time.Hour))
	require.NoError(t, err)

	db, err := svc.GetDatabase(ctx)
	require.NoError(t, err)
	assert.Same(t, first, db, "served from cache without touching the store")

	impl := svc.(*decoSvc)
	impl.mu.Lock()
	impl.lastFetch = time.Time{}
	impl.mu.Unlock()

	db, err = svc.GetDatabase(ctx)
	require.NoError(t, err)
	assert.Same(t, second, db)
}

func TestLoad_KeepsStaleCopyWhenReloadFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	st := storemocks.NewMockStore(ctrl)
	db := testDatabase(time.Now())

	gomock.InOrder(
		st.EXPECT().TryLoad(gomock.Any()).Return(db, true),
		st.EXPECT().TryLoad(gomock.Any()).Return(nil, false),
	)
	st.EXPECT().Path().Return("decorations.json").AnyTimes()

	svc, err := New(ctx, st, WithCacheDuration(0))
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	got, err := svc.GetDatabase(ctx)
	require.NoError(t, err)
	assert.Same(t, db, got)
}

func TestTriggerRebuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewFileStore(t.TempDir())

	svc, err := New(ctx, st)
	require.NoError(t, err)
	assert.Error(t, svc.TriggerRebuild(ctx), "no trigger configured")

	trigger := &fakeTrigger{}
	svc, err = New(ctx, st, WithTrigger(trigger))
	require.NoError(t, err)
	require.NoError(t, svc.TriggerRebuild(ctx))
	assert.Equal(t, 1, trigger.calls)

	trigger.err = coordinator.ErrBuildInProgress
	assert.ErrorIs(t, svc.TriggerRebuild(ctx), service.ErrRebuildInProgress)

	trigger.err = errors.New("boom")
	assert.EqualError(t, svc.TriggerRebuild(ctx), "boom")
}

func TestGetBuildStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	st := store.NewFileStore(dir)

	svc, err := New(ctx, st)
	require.NoError(t, err)
	got, err := svc.GetBuildStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, &status.BuildStatus{}, got)

	persistence := status.NewFileStatusPersistence(dir)
	require.NoError(t, persistence.SaveStatus(ctx, &status.BuildStatus{
		Phase:   status.BuildPhaseFailed,
		Message: "Failed to fetch catalog identifiers",
	}))

	svc, err = New(ctx, st, WithStatusPersistence(persistence))
	require.NoError(t, err)
	got, err = svc.GetBuildStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.BuildPhaseFailed, got.Phase)
}
