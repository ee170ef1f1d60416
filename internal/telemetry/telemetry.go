package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

// NewPrometheusExporter installs a Prometheus-backed global meter provider
// and returns the exporter, which serves the scrape endpoint.
func NewPrometheusExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize prometheus exporter")
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// statusClientClosedRequest labels requests that ended without a response
// because the client went away.
const statusClientClosedRequest = 499

// Metrics holds the service instruments.
type Metrics struct {
	completed    metric.Int64Counter
	duration     metric.Float64ValueRecorder
	notesCreated metric.Int64Counter
}

func New(meter metric.Meter) *Metrics {
	m := metric.Must(meter)

	return &Metrics{
		completed: m.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		duration: m.NewFloat64ValueRecorder(
			"http/server/duration_ms",
			metric.WithDescription("Request latency in milliseconds, by HTTP method and route"),
		),
		notesCreated: m.NewInt64Counter(
			"dealnotes/notes/created_count",
			metric.WithDescription("Count of deal notes created, by pin state"),
		),
	}
}

// NewGlobal builds Metrics on the global meter provider.
func NewGlobal(name string) *Metrics {
	return New(global.Meter(name))
}

// Middleware records request count and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
			if r.Context().Err() != nil {
				status = statusClientClosedRequest
			}
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		labels := []attribute.KeyValue{
			attribute.String("method", r.Method),
			attribute.String("route", route),
		}
		m.completed.Add(r.Context(), 1, append(labels, attribute.String("status", strconv.Itoa(status)))...)
		m.duration.Record(r.Context(), float64(time.Since(start))/float64(time.Millisecond), labels...)
	})
}

func (m *Metrics) NoteCreated(r *http.Request, pinned bool) {
	m.notesCreated.Add(r.Context(), 1, attribute.Bool("pinned", pinned))
}
