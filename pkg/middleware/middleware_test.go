package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRecoveryReturns500(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":500,"message":"Internal Server Error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := middleware.CORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type, X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSSimpleRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.CORS(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(cache.NewMemoryCounter(), 2, time.Minute)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients are unaffected")
}

type brokenCounter struct{}

func (brokenCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}
func (brokenCounter) Driver() string { return "broken" }

func TestRateLimitFailsOpen(t *testing.T) {
	h := middleware.RateLimit(brokenCounter{}, 1, time.Minute)(okHandler)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLoggerInjectsRequestLogger(t *testing.T) {
	var hadID bool
	h := reqid.Middleware()(middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hadID = reqid.FromCtx(r.Context()) != ""
		w.WriteHeader(http.StatusCreated)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hadID)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRecoveryAfterHeadersKeepsStatus(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestLoggerTagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWriter(&buf, "local")

	var seen string
	h := reqid.Middleware()(middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.WithCtx(r.Context()).Info("inside")
		seen = reqid.FromCtx(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blogs/x", nil))

	out := buf.String()
	assert.Contains(t, out, "msg=inside request_id="+seen)
	assert.Contains(t, out, "level=WARN msg=request")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "route=unmatched")
}
