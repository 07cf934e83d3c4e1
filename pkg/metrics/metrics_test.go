package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/blogs/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/blogs/{slug}", "404"))
	for _, slug := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/blogs/"+slug, nil))
	}
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/blogs/{slug}", "404"))

	assert.Equal(t, 2.0, after-before)
}

func TestObserveStoreOp(t *testing.T) {
	metrics.ObserveStoreOp("insert", "order", time.Now(), nil)
	metrics.ObserveStoreOp("insert", "order", time.Now(), errors.New("boom"))

	n, err := testutil.GatherAndCount(metrics.DefaultRegistry, "storefront_store_operation_duration_seconds")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.PaymentConfirmations.WithLabelValues("paid"))
	metrics.RecordPaymentConfirmation("paid")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PaymentConfirmations.WithLabelValues("paid")))

	seeded := testutil.ToFloat64(metrics.ProductsSeeded)
	metrics.RecordProductsSeeded(10)
	assert.Equal(t, seeded+10, testutil.ToFloat64(metrics.ProductsSeeded))
}

func TestHandlerExposesRegistry(t *testing.T) {
	metrics.RecordOrderCreated()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "storefront_checkout_orders_created_total"))
}
