package app

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Router builds the router with global middleware, /metrics and every
// registered route callback. Boot must have run.
func (a *Application) Router() (*router.Router, error) {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, for total latency
	//  2. Recovery
	//  3. Request ID, before anything logs
	//  4. Logger
	//  5. CORS, so preflights never count against the limit
	//  6. Rate limiter
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS,
		middleware.RateLimit(a.Limiter, config.RateLimit(), config.RateWindow()),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { response.MethodNotAllowed(w) })

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routeFns {
		if err := fn(r, a.DB); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Handler is Router as an http.Handler.
func (a *Application) Handler() (http.Handler, error) {
	r, err := a.Router()
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}
