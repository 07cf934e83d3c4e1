// Package testkit drives REST API tests from JSON scenario files.
//
// A scenario is a named list of steps fired in order against one
// http.Handler. Each step describes a request, the expected status code and
// what the response must contain. Values captured from one response can be
// used in later requests as {{name}}:
//
//	{
//	  "name": "checkout then confirm",
//	  "steps": [
//	    {
//	      "name": "create order",
//	      "requestMethod": "POST",
//	      "requestUrl": "/api/checkout/create-order",
//	      "requestBody": {"items": [...], "customer_name": "Meera", ...},
//	      "expectedCode": 200,
//	      "expect": {"amount": 637.82, "currency": "INR"},
//	      "capture": {"order": "order_id"}
//	    },
//	    {
//	      "name": "confirm",
//	      "requestUrl": "/api/checkout/confirm?order_id={{order}}&status=paid",
//	      "expectedCode": 200,
//	      "expect": {"payment_status": "paid"}
//	    }
//	  ]
//	}
//
// Paths in expect, expectLen and capture are dotted; array elements are
// addressed by index ("items.0.title"). Scenario files live in testdata/
// next to the _test.go files:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, newHandler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario is one JSON file: a named sequence of steps sharing a handler.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`

	dir string // directory of the scenario file
}

// Step is a single request and its assertions.
type Step struct {
	Name string `json:"name"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // defaults to GET
	RequestURL      string            `json:"requestUrl"`      // may contain {{var}}
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline JSON body
	RequestFileName string            `json:"requestFileName"` // or a body file, relative to the scenario
	Headers         map[string]string `json:"headers"`

	// Response assertions
	ExpectedCode     int               `json:"expectedCode"`
	ResponseFileName string            `json:"responseFileName"` // full-body JSON comparison
	Expect           map[string]any    `json:"expect"`           // path → value
	ExpectLen        map[string]int    `json:"expectLen"`        // path → array length
	ExpectHeaders    map[string]string `json:"expectHeaders"`
	Capture          map[string]string `json:"capture"` // var → path
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.RequestURL == "" {
			return fmt.Errorf("steps[%d].requestUrl is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if len(st.RequestBody) > 0 && st.RequestFileName != "" {
			return fmt.Errorf("steps[%d]: requestBody and requestFileName are exclusive", i)
		}
		if st.RequestMethod == "" {
			st.RequestMethod = http.MethodGet
		}
		st.RequestMethod = strings.ToUpper(st.RequestMethod)
		if st.Name == "" {
			st.Name = fmt.Sprintf("%02d %s %s", i+1, st.RequestMethod, st.RequestURL)
		}
	}
	return nil
}

// resolve returns p relative to the scenario directory.
func (s *Scenario) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// LoadAllFromDir loads every *.json file in dir as a Scenario. Files that
// fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
