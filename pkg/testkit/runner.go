package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// HandlerFactory builds a fresh handler for one scenario, so scenarios do
// not share state.
type HandlerFactory func(t *testing.T) http.Handler

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes one scenario file against handler as a subtest.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	t.Run(s.Name, func(t *testing.T) {
		RunScenario(t, handler, s)
	})
}

// RunDir runs every *.json scenario in dir, each against its own handler.
// Files that fail to load are reported as errors.
func RunDir(t *testing.T, newHandler HandlerFactory, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			RunScenario(t, newHandler(t), s)
		})
	}
}

// RunScenario fires every step in order. A failing step stops the
// scenario, since later steps usually depend on its captures.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	vars := map[string]string{}
	for i := range s.Steps {
		st := &s.Steps[i]
		ok := t.Run(st.Name, func(t *testing.T) {
			runStep(t, handler, s, st, vars)
		})
		if !ok {
			return
		}
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runStep(t *testing.T, handler http.Handler, s *Scenario, st *Step, vars map[string]string) {
	t.Helper()

	body, err := stepBody(s, st)
	require.NoError(t, err, "[%s] request body", st.Name)

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(expand(body, vars))
	}

	req := httptest.NewRequest(st.RequestMethod, string(expand([]byte(st.RequestURL), vars)), reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range st.Headers {
		req.Header.Set(k, string(expand([]byte(v), vars)))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, st, rec.Code, rec.Body.Bytes())
	AssertHeaders(t, st, rec.Header())

	if p := s.resolve(st.ResponseFileName); p != "" {
		expected, err := os.ReadFile(p)
		require.NoError(t, err, "[%s] read response file", st.Name)
		AssertJSONBody(t, st, expected, rec.Body.Bytes())
	}

	if len(st.Expect) == 0 && len(st.ExpectLen) == 0 && len(st.Capture) == 0 {
		return
	}

	var decoded any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded),
		"[%s] response is not valid JSON\nbody: %s", st.Name, rec.Body.String())

	AssertPaths(t, st, expandExpect(st.Expect, vars), decoded)

	for name, path := range st.Capture {
		v, found := Lookup(decoded, path)
		require.True(t, found, "[%s] capture %q: path %q missing", st.Name, name, path)
		vars[name] = fmt.Sprint(v)
	}
}

func stepBody(s *Scenario, st *Step) ([]byte, error) {
	switch {
	case len(st.RequestBody) > 0:
		return st.RequestBody, nil
	case st.RequestFileName != "":
		return os.ReadFile(s.resolve(st.RequestFileName))
	default:
		return nil, nil
	}
}

// expandExpect substitutes captures into string expectations.
func expandExpect(expect map[string]any, vars map[string]string) map[string]any {
	out := make(map[string]any, len(expect))
	for path, want := range expect {
		if s, ok := want.(string); ok {
			want = string(expand([]byte(s), vars))
		}
		out[path] = want
	}
	return out
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// expand replaces {{name}} with captured values. Unknown names are left
// as they are.
func expand(b []byte, vars map[string]string) []byte {
	return placeholder.ReplaceAllFunc(b, func(m []byte) []byte {
		name := string(placeholder.FindSubmatch(m)[1])
		if v, ok := vars[name]; ok {
			return []byte(v)
		}
		return m
	})
}
