package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
)

// stubFetcher serves a fixed pair of catalogs.
type stubFetcher struct {
	idCalls atomic.Int32
}

func newStubFetcher() *stubFetcher { return &stubFetcher{} }

func (f *stubFetcher) FetchIDs(_ context.Context, src catalog.Source) (catalog.IDSet, error) {
	f.idCalls.Add(1)
	if src.Kind == catalog.KindGuild {
		return catalog.NewIDSet(1, 2), nil
	}
	return catalog.NewIDSet(10), nil
}

func (*stubFetcher) FetchRecords(_ context.Context, src catalog.Source, _ catalog.IDSet) ([]catalog.Record, error) {
	if src.Kind == catalog.KindGuild {
		return []catalog.Record{
			{ID: 1, Name: "Chair", Type: "Decoration"},
			{ID: 2, Name: "Banner", Type: "Decoration"},
		}, nil
	}
	return []catalog.Record{{ID: 10, Name: "chair"}}, nil
}

func get(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test server on loopback
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestDecoApp_ServeBuildsAndServes(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	app, err := NewDecoApp(context.Background(),
		WithConfig(testConfig(t)),
		WithFetcher(fetcher),
	)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + listener.Addr().String()

	errChan := make(chan error, 1)
	go func() { errChan <- app.Serve(listener) }()

	status, body := get(t, base+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	require.Eventually(t, func() bool {
		status, _ := get(t, base+"/readiness")
		return status == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond, "startup build should make the front door ready")

	status, body = get(t, base+"/decorations/lookup?name=CHAIR")
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, body["guildUpgradeId"], 0)
	assert.InDelta(t, 10, body["homesteadId"], 0)

	status, body = get(t, base+"/status")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, []any{"Complete", "UpToDate"}, body["phase"])

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case serveErr := <-errChan:
		require.NoError(t, serveErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after Stop()")
	}
}

func TestDecoApp_NotReadyBeforeFirstBuild(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	onStartup := false
	cfg.Build.OnStartup = &onStartup

	app, err := NewDecoApp(context.Background(), WithConfig(cfg), WithFetcher(newStubFetcher()))
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + listener.Addr().String()

	errChan := make(chan error, 1)
	go func() { errChan <- app.Serve(listener) }()

	require.Eventually(t, func() bool {
		status, body := get(t, base+"/decorations")
		return status == http.StatusServiceUnavailable && body["status"] == "not_ready"
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/decorations/rebuild", "application/json", nil) //nolint:gosec // loopback
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		status, _ := get(t, base+"/decorations")
		return status == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, app.Stop(5*time.Second))
	require.NoError(t, <-errChan)
}

func TestDecoApp_StartFailsOnBusyAddress(t *testing.T) {
	t.Parallel()

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(t)
	cfg.Address = busy.Addr().String()

	app, err := NewDecoApp(context.Background(), WithConfig(cfg), WithFetcher(newStubFetcher()))
	require.NoError(t, err)

	err = app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestDecoApp_Accessors(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	app, err := NewDecoApp(context.Background(), WithConfig(cfg), WithFetcher(newStubFetcher()))
	require.NoError(t, err)

	assert.Same(t, cfg, app.GetConfig())
	assert.Equal(t, "127.0.0.1:0", app.GetHTTPServer().Addr)
	require.NotNil(t, app.Components())
	assert.NotNil(t, app.Components().Coordinator)
	assert.NotNil(t, app.Components().Service)
	assert.NotNil(t, app.Components().Store)
}
