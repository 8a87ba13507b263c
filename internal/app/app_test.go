package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athletepulse/internal/config"
	"athletepulse/internal/infrastructure"
	"athletepulse/internal/ingest"
	"athletepulse/internal/shared/testutil"
	ws "athletepulse/internal/websocket"
)

func testConfig(t *testing.T, dataDir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = dataDir
	cfg.Paths.ExportDir = t.TempDir()
	cfg.Paths.LogsDir = t.TempDir()
	cfg.Telemetry.MetricsEnabled = true
	cfg.Telemetry.TracesExporter = "none"
	return cfg
}

func newTestApp(t *testing.T, dataDir string) (*Application, *httptest.Server) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := NewApplication(testConfig(t, dataDir), t.TempDir(), logger)
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		a.WebSocketHub.CloseAll()
		srv.Close()
		_ = a.OTelProviders.Shutdown(context.Background())
	})
	return a, srv
}

func get(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func TestNewApplication(t *testing.T) {
	dir := testutil.AthleteWorkbooks(t, t.TempDir())
	a, _ := newTestApp(t, dir)

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Server)
	assert.NotNil(t, a.Dashboard)
	assert.NotNil(t, a.Health)
	assert.NotNil(t, a.Exporter)
	assert.NotNil(t, a.WebSocketHub)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.DirExists(t, a.Paths.ExportDir)
}

func TestApplication_ServesDashboard(t *testing.T) {
	dir := testutil.AthleteWorkbooks(t, t.TempDir())
	a, srv := newTestApp(t, dir)
	require.NoError(t, a.LoadDataset(context.Background()))

	code, body := get(t, srv.URL+"/api/athletes")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"Alex Smith", "Sam Taylor"}, body["data"])

	code, body = get(t, srv.URL+"/api/athletes/Alex%20Smith/insights")
	require.Equal(t, http.StatusOK, code)
	insights := body["data"].(map[string]interface{})["insights"].([]interface{})
	require.Len(t, insights, 2)
	assert.Equal(t, "low_overall_feeling", insights[0].(map[string]interface{})["kind"])
	assert.Equal(t, "major_injury", insights[1].(map[string]interface{})["kind"])

	code, body = get(t, srv.URL+"/api/athletes/Alex%20Smyth")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body["suggestions"], "Alex Smith")

	code, body = get(t, srv.URL+"/api/dataset")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["data"].(map[string]interface{})["filtered_rows"])

	code, body = get(t, srv.URL+"/api/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])

	code, body = get(t, srv.URL+"/api/version")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, config.Version, body["version"])
}

func TestApplication_NotReadyWithoutWorkbooks(t *testing.T) {
	a, srv := newTestApp(t, t.TempDir())
	require.Error(t, a.LoadDataset(context.Background()))

	code, _ := get(t, srv.URL+"/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, body := get(t, srv.URL+"/api/athletes")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "/errors/dataset/unavailable", body["type"])

	resp, err := http.Post(srv.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestApplication_ReloadPicksUpWorkbooks(t *testing.T) {
	dir := t.TempDir()
	a, srv := newTestApp(t, dir)
	require.Error(t, a.LoadDataset(context.Background()))

	testutil.AthleteWorkbooks(t, dir)
	resp, err := http.Post(srv.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, _ := get(t, srv.URL+"/api/health/ready")
	assert.Equal(t, http.StatusOK, code)
}

func TestApplication_NotFoundProblem(t *testing.T) {
	_, srv := newTestApp(t, t.TempDir())
	code, body := get(t, srv.URL+"/api/nothing-here")
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, body["type"])
}

func TestApplication_MetricsEndpoint(t *testing.T) {
	dir := testutil.AthleteWorkbooks(t, t.TempDir())
	a, srv := newTestApp(t, dir)
	require.NoError(t, a.LoadDataset(context.Background()))

	code, _ := get(t, srv.URL+"/api/athletes/Sam%20Taylor")
	require.Equal(t, http.StatusOK, code)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "athlete_selections_total")
	assert.Contains(t, string(raw), "pipeline_rows_total")
}

func TestApplication_WebSocketReceivesReloads(t *testing.T) {
	dir := testutil.AthleteWorkbooks(t, t.TempDir())
	a, srv := newTestApp(t, dir)
	require.NoError(t, a.LoadDataset(context.Background()))

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	read := func() string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg ws.Envelope
		require.NoError(t, conn.ReadJSON(&msg))
		return msg.Type
	}
	assert.Equal(t, ws.TypeConnection, read())
	require.Eventually(t, func() bool { return a.WebSocketHub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err = a.Dashboard.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ws.TypeDatasetUpdated, read())

	require.NoError(t, conn.WriteJSON(ws.ClientMessage{Type: ws.TypeAthleteSelected, Athlete: "Sam Taylor"}))
	assert.Equal(t, ws.TypeAthleteView, read())
}

func TestApplication_Stop(t *testing.T) {
	a, _ := newTestApp(t, t.TempDir())
	assert.NoError(t, a.Stop(context.Background()))
}

func TestNewTableLoader(t *testing.T) {
	dir := testutil.AthleteWorkbooks(t, t.TempDir())
	cfg := testConfig(t, dir)
	paths, err := config.ResolvePaths(cfg.Paths, "")
	require.NoError(t, err)

	loader, err := NewTableLoader(cfg, paths, nil)
	require.NoError(t, err)
	tables, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, tables.Global.Len())

	cfg.Sources.Kind = "ftp"
	_, err = NewTableLoader(cfg, paths, nil)
	assert.ErrorContains(t, err, "unsupported source kind")
}

func TestNewTableLoader_FixedPathOverridesDiscovery(t *testing.T) {
	dir := testutil.AthleteWorkbooks(t, t.TempDir())
	other := t.TempDir()
	renamed := filepath.Join(other, "roster.xlsx")
	require.NoError(t, os.Rename(filepath.Join(dir, ingest.GlobalWorkbook), renamed))

	cfg := testConfig(t, dir)
	cfg.Sources.GlobalPath = renamed
	paths, err := config.ResolvePaths(cfg.Paths, "")
	require.NoError(t, err)

	loader, err := NewTableLoader(cfg, paths, nil)
	require.NoError(t, err)
	tables, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, tables.Global.Len())
}

func TestBootstrap(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	cfg, logger, err := Bootstrap(path)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, 9090, cfg.Server.Port)

	_, _, err = Bootstrap(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
