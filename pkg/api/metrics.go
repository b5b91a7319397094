package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/molcanon/pkg/observability"
)

const namespace = "molcanon"

// Metrics exports pipeline, cache, registry and HTTP events to Prometheus.
// It implements the observability hook interfaces; [Metrics.Install] makes
// it the process-wide hook set.
type Metrics struct {
	registry *prometheus.Registry

	parses        *prometheus.CounterVec
	canonicalized *prometheus.CounterVec
	duration      prometheus.Histogram
	rounds        prometheus.Histogram
	atoms         prometheus.Histogram

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	registrations *prometheus.CounterVec
	lookups       *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_total",
			Help:      "Molecules loaded, by source format and outcome.",
		}, []string{"source", "outcome"}),
		canonicalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "canonicalize_total",
			Help:      "Canonicalizations, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "canonicalize_duration_seconds",
			Help:      "Time spent refining, traversing and relabeling one molecule.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refinement_rounds",
			Help:      "Refinement rounds needed to reach the equitable partition.",
			Buckets:   prometheus.LinearBuckets(0, 1, 12),
		}),
		atoms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "molecule_atoms",
			Help:      "Atom count of canonicalized molecules.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 11),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Result cache hits, misses and writes.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the result cache.",
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_put_total",
			Help:      "Registry writes, by backend and whether a new entry was created.",
		}, []string{"backend", "created"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_get_total",
			Help:      "Registry lookups, by backend and whether the key was found.",
		}, []string{"backend", "found"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.parses, m.canonicalized, m.duration, m.rounds, m.atoms,
		m.cacheEvents, m.cacheBytes,
		m.registrations, m.lookups,
		m.requests, m.requestDuration,
	)
	return m
}

// Install registers m as the global pipeline, cache and registry hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetRegistryHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnParseStart(context.Context, string) {}

func (m *Metrics) OnParseComplete(_ context.Context, source string, _ int, _ time.Duration, err error) {
	m.parses.WithLabelValues(source, outcome(err)).Inc()
}

func (m *Metrics) OnCanonicalizeStart(context.Context, int) {}

func (m *Metrics) OnCanonicalizeComplete(_ context.Context, atoms, rounds int, d time.Duration, err error) {
	m.canonicalized.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return
	}
	m.duration.Observe(d.Seconds())
	m.rounds.Observe(float64(rounds))
	m.atoms.Observe(float64(atoms))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRegister(_ context.Context, backend string, created bool) {
	m.registrations.WithLabelValues(backend, strconv.FormatBool(created)).Inc()
}

func (m *Metrics) OnLookup(_ context.Context, backend string, found bool) {
	m.lookups.WithLabelValues(backend, strconv.FormatBool(found)).Inc()
}

// instrument records request counts and latency by chi route pattern, so
// query strings and path parameters do not explode label cardinality.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.RegistryHooks = (*Metrics)(nil)
)
