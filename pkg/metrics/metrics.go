// Package metrics provides Prometheus instrumentation for the storefront.
//
// Wire it up once in the HTTP kernel:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// ─────────────────────────────────────────────
// HTTP
// ─────────────────────────────────────────────

var (
	// RequestDuration is labelled by the matched route pattern, not the raw
	// path, so /api/blogs/{slug} stays one series.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)

// ─────────────────────────────────────────────
// Store and domain
// ─────────────────────────────────────────────

var (
	StoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of document store operations in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation", "collection", "outcome"}, // outcome: ok | error
	)

	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "orders_created_total",
		Help:      "Orders persisted by checkout.",
	})

	PaymentConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "payment_confirmations_total",
			Help:      "Payment confirmations by resulting status.",
		},
		[]string{"status"}, // "paid" | "failed"
	)

	ProductsSeeded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "products_seeded_total",
		Help:      "Products inserted by the seeder.",
	})
)

// DefaultRegistry holds every storefront metric plus Go runtime and
// process collectors.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		RateLimited,
		StoreOpDuration,
		OrdersCreated,
		PaymentConfirmations,
		ProductsSeeded,
	)
}

// Register adds a collector to DefaultRegistry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// ─────────────────────────────────────────────
// HTTP middleware
// ─────────────────────────────────────────────

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count and in-flight requests.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			route := routePattern(r)
			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// routePattern reads the pattern chi matched. The route context is filled
// in by the time next returns; unmatched requests share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Handler exposes DefaultRegistry for scraping.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ─────────────────────────────────────────────
// Helpers for app code
// ─────────────────────────────────────────────

// ObserveStoreOp matches docstore.Observer so it can be passed to
// docstore.Instrument directly.
func ObserveStoreOp(op, collection string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOpDuration.WithLabelValues(op, collection, outcome).Observe(time.Since(start).Seconds())
}

func RecordOrderCreated() { OrdersCreated.Inc() }

func RecordPaymentConfirmation(status string) {
	PaymentConfirmations.WithLabelValues(status).Inc()
}

func RecordProductsSeeded(n int) { ProductsSeeded.Add(float64(n)) }
