package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/prometheus"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Exporter) {
	t.Helper()

	exporter, err := NewPrometheusExporter()
	require.NoError(t, err)

	return New(exporter.MeterProvider().Meter("test")), exporter
}

func scrape(t *testing.T, exporter *prometheus.Exporter) string {
	t.Helper()

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}

func TestMiddlewarePassesThrough(t *testing.T) {
	m := NewGlobal("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		m.NoteCreated(r, true)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestExporterServesRecordedMetrics(t *testing.T) {
	m, exporter := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/teapot/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.NoteCreated(r, true)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot/1", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	body := scrape(t, exporter)
	assert.Contains(t, body, "http_server_completed_count")
	assert.Contains(t, body, `status="418"`)
	assert.Contains(t, body, `route="/teapot/{id}"`)
	assert.Contains(t, body, "http_server_duration_ms")
	assert.Contains(t, body, "dealnotes_notes_created_count")
	assert.Contains(t, body, `pinned="true"`)
}

func TestMiddlewareStatusWithoutWrite(t *testing.T) {
	m, exporter := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/silent", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/silent", nil))

	body := scrape(t, exporter)
	assert.Contains(t, body, `status="200"`)
	assert.NotContains(t, body, `status="499"`)
}

func TestMiddlewareClientClosedRequest(t *testing.T) {
	m, exporter := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx))

	body := scrape(t, exporter)
	assert.Contains(t, body, `status="499"`)
	assert.NotContains(t, body, `status="200"`)
}

func TestMiddlewareCountsRecoveredPanics(t *testing.T) {
	m, exporter := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Use(middleware.Recoverer)
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Contains(t, scrape(t, exporter), `status="500"`)
}
