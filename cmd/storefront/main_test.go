package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func TestRouteList(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"route:list"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	text := out.String()
	for _, want := range []string{
		"METHOD", "/api/products/seed", "products.seed",
		"/api/checkout/create-order", "checkout.create",
		"/api/blogs/{slug}", "/graphql", "/metrics",
	} {
		assert.Contains(t, text, want)
	}
}

func TestPrintRoutesEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, nil))
	assert.Equal(t, "No named routes registered.\n", out.String())
}

func TestPrintRoutesAligns(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, []router.RouteInfo{
		{Method: "GET", Path: "/", Name: "home"},
		{Method: "POST", Path: "/api/checkout/create-order", Name: "checkout.create"},
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[0], "PATH"), strings.Index(lines[2], "/"))
	assert.Equal(t, strings.Index(lines[0], "NAME"), strings.Index(lines[3], "checkout.create"))
}
