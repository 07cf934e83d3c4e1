package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/schema"
)

type line struct {
	Title    string `json:"title" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type basket struct {
	Owner  string   `json:"owner" validate:"required"`
	Price  *float64 `json:"price" validate:"required,gte=0"`
	Status string   `json:"status" validate:"oneof=open closed"`
	Lines  []line   `json:"lines" validate:"required,min=1,dive"`
}

func (b *basket) ApplyDefaults() {
	if b.Status == "" {
		b.Status = "open"
	}
}

func ptr(f float64) *float64 { return &f }

func TestValidateReportsJSONNames(t *testing.T) {
	errs := schema.Validate(&basket{Status: "open"})

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Reason
	}
	assert.Equal(t, "field required", fields["owner"])
	assert.Equal(t, "field required", fields["price"])
	assert.Equal(t, "field required", fields["lines"])
}

func TestValidateNestedPath(t *testing.T) {
	b := &basket{Owner: "a", Price: ptr(1), Status: "open", Lines: []line{{Title: "", Quantity: 0}}}
	errs := schema.Validate(b)
	require.Len(t, errs, 2)
	assert.Equal(t, "lines[0].title", errs[0].Field)
	assert.Equal(t, "lines[0].quantity", errs[1].Field)
	assert.Contains(t, errs[1].Reason, "greater than or equal to 1")
}

func TestValidateRanges(t *testing.T) {
	b := &basket{Owner: "a", Price: ptr(-1), Status: "lost", Lines: []line{{Title: "x", Quantity: 1}}}
	errs := schema.Validate(b)
	require.Len(t, errs, 2)
	assert.Equal(t, "price", errs[0].Field)
	assert.Equal(t, "status", errs[1].Field)
	assert.Equal(t, "must be one of: open, closed", errs[1].Reason)
}

func TestPrepareAppliesDefaultsFirst(t *testing.T) {
	b := &basket{Owner: "a", Price: ptr(0), Lines: []line{{Title: "x", Quantity: 1}}}
	assert.Empty(t, schema.Prepare(b))
	assert.Equal(t, "open", b.Status)
}

func TestRegisterKeepsOrder(t *testing.T) {
	schema.Register("zz_first", basket{})
	schema.Register("zz_second", line{})
	schema.Register("zz_first", line{})

	names := schema.Collections()
	var ours []string
	for _, n := range names {
		if n == "zz_first" || n == "zz_second" {
			ours = append(ours, n)
		}
	}
	assert.Equal(t, []string{"zz_first", "zz_second"}, ours)
}
