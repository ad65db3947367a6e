// Package telemetry exposes Prometheus metrics for the scheduling API:
// request counts and latency, response cache effectiveness, and database
// pool saturation.
package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "schedview"

// defaultSizeBuckets are histogram boundaries (in bytes) for response sizes.
var defaultSizeBuckets = []float64{
	100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000,
}

// Metrics holds the Prometheus collectors for the server. Collectors register
// on a private registry so repeated construction (tests, embedded use) never
// panics with duplicate registrations.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	responseSize     prometheus.Histogram
	cacheLookups     *prometheus.CounterVec
}

// New builds a Metrics recorder backed by a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry builds a Metrics recorder on the given registry, so tests
// can inspect collectors in isolation.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served, by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being handled.",
		}),
		responseSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response body size in bytes.",
			Buckets:   defaultSizeBuckets,
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups, by result (hit, miss, skip).",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry so callers can register extra
// collectors alongside the built-in ones.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an Echo handler serving the Prometheus text exposition
// format for this recorder's registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request count, latency, in-flight gauge, and response
// size for every request. The route label uses the Echo route pattern
// (/api/v1/doctors/:id) rather than the raw path, so resource IDs do not
// blow up label cardinality. Cache lookup results are read from the X-Cache
// header the response cache layer sets.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			m.requestsInFlight.Inc()
			start := time.Now()

			err := next(c)

			m.requestsInFlight.Dec()

			req := c.Request()
			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}

			status := c.Response().Status
			if err != nil {
				// The error handler has not run yet; derive the status it
				// will write.
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			m.requestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
			if size := c.Response().Size; size > 0 {
				m.responseSize.Observe(float64(size))
			}
			if result := c.Response().Header().Get("X-Cache"); result != "" {
				m.cacheLookups.WithLabelValues(strings.ToLower(result)).Inc()
			}

			return err
		}
	}
}

// RegisterPoolGauges exposes live pgx pool statistics. GaugeFunc reads the
// pool on every scrape, so no background sampler is needed.
func (m *Metrics) RegisterPoolGauges(pool *pgxpool.Pool) {
	if m == nil || pool == nil {
		return
	}
	factory := promauto.With(m.registry)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_total_conns",
		Help:      "Total connections currently in the pool.",
	}, func() float64 { return float64(pool.Stat().TotalConns()) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_idle_conns",
		Help:      "Idle connections currently in the pool.",
	}, func() float64 { return float64(pool.Stat().IdleConns()) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_acquired_conns",
		Help:      "Connections currently checked out of the pool.",
	}, func() float64 { return float64(pool.Stat().AcquiredConns()) })
}
