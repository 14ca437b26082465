package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeLookupError = "lookup_error"
	OutcomeInvalid     = "invalid"
)

// Recorder collects tool-call metrics into its own registry. A nil Recorder
// discards observations.
type Recorder struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder builds a Recorder with Go runtime and process collectors
// registered alongside the tool-call metrics.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rdap_mcp",
		Name:      "tool_calls_total",
		Help:      "Completed MCP tool calls by tool and outcome.",
	}, []string{"tool", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rdap_mcp",
		Name:      "tool_call_duration_seconds",
		Help:      "MCP tool call latency including the RDAP round trip.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"tool"})

	registry.MustRegister(
		calls,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Recorder{registry: registry, calls: calls, duration: duration}
}

// ObserveToolCall records one completed tool call.
func (r *Recorder) ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(tool, outcome).Inc()
	r.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for scraping and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler routes /metrics and /healthz.
func (r *Recorder) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if r != nil {
		router.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	}
	return router
}
