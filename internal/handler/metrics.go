package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/sf-developer/video-player/internal/repository"
)

// Metrics holds all Prometheus collectors of the player statistics service.
var Metrics = struct {
	EventsTotal         *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	DBPoolActive        prometheus.GaugeFunc
	DBPoolIdle          prometheus.GaugeFunc
	NotificationsUnread prometheus.GaugeFunc
	RequestsInFlight    prometheus.Gauge
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	UpstreamFailures    *prometheus.CounterVec
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pvp_events_total",
			Help: "Total engagement events recorded, by type.",
		},
		[]string{"type"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pvp_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pvp_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pvp_cache_hits_total",
			Help: "Total player cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pvp_cache_misses_total",
			Help: "Total player cache misses.",
		},
	)

	Metrics.UpstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pvp_upstream_failures_total",
			Help: "Failed calls to third-party endpoints, by upstream.",
		},
		[]string{"upstream"},
	)

	// Pool and feed gauges read live values on scrape
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "pvp_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "pvp_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		notifications := repository.NewNotificationRepo(pool)
		Metrics.NotificationsUnread = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "pvp_notifications_unread",
				Help: "Number of unread notifications.",
			},
			func() float64 {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				n, err := notifications.CountUnread(ctx)
				if err != nil {
					return 0
				}
				return float64(n)
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
		prometheus.MustRegister(Metrics.NotificationsUnread)
	}

	prometheus.MustRegister(
		Metrics.EventsTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.UpstreamFailures,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy method into an owned string BEFORE c.Next(); Fiber returns
		// slices backed by the fasthttp buffer which handlers may reuse.
		method := string([]byte(c.Method()))

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		endpoint := routeEndpoint(c)

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// routeEndpoint returns the matched route pattern, so label cardinality is
// bounded by the route table. Unmatched requests share one label.
func routeEndpoint(c fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}

// RecordEvent counts a stored engagement event.
func RecordEvent(eventType string) {
	if Metrics.EventsTotal != nil {
		Metrics.EventsTotal.WithLabelValues(eventType).Inc()
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
