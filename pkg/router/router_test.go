package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupsJoinPrefixes(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/blogs/{slug}", "blogs.show", ok)
	api.Group("checkout").Post("/confirm", "checkout.confirm", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout/confirm", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	path, found := r.Path("checkout.confirm")
	require.True(t, found)
	assert.Equal(t, "/api/checkout/confirm", path)
}

func TestURLFillsParams(t *testing.T) {
	r := router.New()
	r.Get("/api/blogs/{slug}", "blogs.show", ok)

	url, err := r.URL("blogs.show", map[string]string{"slug": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "/api/blogs/hello", url)

	_, err = r.URL("blogs.show", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesListsEveryMethod(t *testing.T) {
	r := router.New()
	r.Get("/b", "b", ok)
	r.Get("/a", "", ok)
	r.Post("/a", "a.store", ok)

	assert.Equal(t, []router.RouteInfo{
		{Method: "GET", Path: "/a", Name: ""},
		{Method: "POST", Path: "/a", Name: "a.store"},
		{Method: "GET", Path: "/b", Name: "b"},
	}, r.Routes())
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	r.Group("/g", mw("group")).Get("/x", "", ok, mw("route"))
	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/g/x", nil))

	assert.Equal(t, []string{"group", "route"}, order)
}
