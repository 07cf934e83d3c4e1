package testkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code, printing the body on mismatch.
func AssertStatusCode(t *testing.T, st *Step, got int, body []byte) {
	t.Helper()
	assert.Equal(t, st.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", st.Name, string(body))
}

// AssertHeaders checks every expected response header.
func AssertHeaders(t *testing.T, st *Step, h http.Header) {
	t.Helper()
	for k, v := range st.ExpectHeaders {
		assert.Equal(t, v, h.Get(k), "[%s] header %s", st.Name, k)
	}
}

// AssertJSONBody deep-compares the response against the expected file
// after decoding both, so key order and whitespace never matter.
func AssertJSONBody(t *testing.T, st *Step, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal any
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", st.Name)

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", st.Name, string(actual)) {
		return
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", st.Name)
}

// AssertPaths checks expect (path → value) and the step's expectLen
// against a decoded body.
func AssertPaths(t *testing.T, st *Step, expect map[string]any, decoded any) {
	t.Helper()

	for path, want := range expect {
		got, found := Lookup(decoded, path)
		if !assert.True(t, found, "[%s] path %q missing", st.Name, path) {
			continue
		}
		assert.Equal(t, want, got, "[%s] path %q", st.Name, path)
	}

	for path, n := range st.ExpectLen {
		got, found := Lookup(decoded, path)
		if !assert.True(t, found, "[%s] path %q missing", st.Name, path) {
			continue
		}
		arr, ok := got.([]any)
		if assert.True(t, ok, "[%s] path %q is %T, not an array", st.Name, path, got) {
			assert.Len(t, arr, n, "[%s] path %q", st.Name, path)
		}
	}
}

// Lookup walks a decoded JSON value along a dotted path. An empty path
// returns v itself.
func Lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}

	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
