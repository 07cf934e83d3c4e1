package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// Recovery turns a handler panic into a logged stack trace and a 500
// envelope. When the handler had already started the response, only the
// log line is written. http.ErrAbortHandler is re-raised.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprint(v),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
				"response_started", rec.status != 0,
			)
			if rec.status == 0 {
				response.Error(rec, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(rec, r)
	})
}
