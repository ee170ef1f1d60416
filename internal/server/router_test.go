package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
	"github.com/SergeyParamoshkin/dealnotes/internal/store"
	"github.com/SergeyParamoshkin/dealnotes/internal/telemetry"
)

func newTestServer(t *testing.T, latency Latency) *httptest.Server {
	t.Helper()

	now := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(NewRouter(Options{
		Logger:  zap.NewNop().Sugar(),
		Store:   store.NewMemory(now),
		Metrics: telemetry.NewGlobal("test"),
		Now:     now,
		Latency: latency,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, Latency{})

	resp, body := get(t, srv.URL+"/ping")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", body)
}

func TestServesUI(t *testing.T) {
	srv := newTestServer(t, Latency{})

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Real Estate Deal Platform")

	resp, _ = get(t, srv.URL+"/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotesRoundTrip(t *testing.T) {
	srv := newTestServer(t, Latency{})

	resp, err := http.Post(srv.URL+"/api/deals/deal-2/notes", "application/json",
		strings.NewReader(`{"content":"Tenant asked about parking"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := get(t, srv.URL+"/api/deals/deal-2/notes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var got model.ListDealNotesResult
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, 1, got.TotalCount)
	assert.Equal(t, "Tenant asked about parking", got.Notes[0].Content)
	assert.True(t, strings.HasPrefix(got.Notes[0].ID, "note-"))
}

func TestDealRoutes(t *testing.T) {
	srv := newTestServer(t, Latency{})

	resp, _ := get(t, srv.URL+"/api/deals")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/deals/deal-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/deals/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSimulatedLatencyHonorsCancel(t *testing.T) {
	srv := newTestServer(t, Latency{ListNotes: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/deals/deal-1/notes", nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = http.DefaultClient.Do(req)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSimulatedLatencyDelays(t *testing.T) {
	srv := newTestServer(t, Latency{ListNotes: 30 * time.Millisecond})

	start := time.Now()
	resp, _ := get(t, srv.URL+"/api/deals/deal-1/notes")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRoutesDoc(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	r := NewRouter(Options{
		Logger:  zap.NewNop().Sugar(),
		Store:   store.NewMemory(now),
		Metrics: telemetry.NewGlobal("test"),
		Now:     now,
	})

	doc := RoutesDoc(r)
	assert.Contains(t, doc, "# github.com/SergeyParamoshkin/dealnotes")
	assert.Contains(t, doc, "`/ping`")
	assert.Contains(t, doc, "`/api/deals`")
	assert.Contains(t, doc, "`/api/deals/{dealID}`")
	assert.Contains(t, doc, "`/api/deals/{dealID}/notes`")
	assert.Contains(t, doc, "Total # of routes:")
}

func TestMetricsCountCancelledRequests(t *testing.T) {
	exporter, err := telemetry.NewPrometheusExporter()
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	r := NewRouter(Options{
		Logger:  zap.NewNop().Sugar(),
		Store:   store.NewMemory(now),
		Metrics: telemetry.New(exporter.MeterProvider().Meter("test")),
		Now:     now,
		Latency: Latency{ListNotes: time.Hour},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/deals/deal-1/notes", nil).WithContext(ctx)
	r.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `route="/api/deals/{dealID}/notes"`)
	assert.Contains(t, body, `status="499"`)
	assert.NotContains(t, body, `status="200"`)
}
