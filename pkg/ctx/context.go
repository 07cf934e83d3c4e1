// Package ctx provides a gin.Context-inspired request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func ShowBlog(c *ctx.Context) {
//	    post, err := blogs.GetBySlug(c.Context(), c.Param("slug"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.JSON(http.StatusOK, post)
//	}
//
//	router.Get("/api/blogs/{slug}", "blogs.show", ctx.Wrap(ShowBlog))
package ctx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/schema"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/api/blogs/{slug}" → c.Param("slug")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, or "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// HasQuery reports whether key appears in the query string at all.
func (c *Context) HasQuery(key string) bool {
	return c.R.URL.Query().Has(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses a query value leniently ("20", "20.0", " 20 ").
// Missing or unparsable values yield def.
func (c *Context) QueryInt(key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		f, ferr := cast.ToFloat64E(raw)
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return n
}

// QueryBool parses a query value with strconv.ParseBool rules ("1", "t",
// "true", ...). Missing or unparsable values yield def.
func (c *Context) QueryBool(key string, def bool) bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return def
	}
	return b
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// ClientIP returns the client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string { return ClientIP(c.R) }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the remote
// address without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest. Schema validation is left to
// the service. On a malformed body it sends a 400, on a wrongly typed
// field a 422, and returns false.
//
//	var input models.BlogPost
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	fields, err := bind.JSON(c.R, dest, config.MaxBodyBytes())
	if err != nil {
		msg := err.Error()
		if errors.Is(err, bind.ErrMalformed) {
			msg = strings.TrimPrefix(msg, bind.ErrMalformed.Error()+": ")
		}
		c.Error(http.StatusBadRequest, msg)
		return false
	}
	if len(fields) > 0 {
		c.ValidationError(fields)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// OK writes v with 200.
func (c *Context) OK(v any) { c.JSON(http.StatusOK, v) }

// Error sends the error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// ValidationError sends a 422 with field-level errors.
func (c *Context) ValidationError(fields []schema.FieldError) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, fields)
}

// Fail classifies err (see apperr.From) and sends the matching envelope.
func (c *Context) Fail(err error) {
	response.Fail(c.W, c.R, err)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
