package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/bind"
)

type payload struct {
	Title string   `json:"title"`
	Price *float64 `json:"price"`
}

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestJSONDecodes(t *testing.T) {
	var p payload
	fields, err := bind.JSON(request(`{"title":"Mug","price":12.5}`), &p, 1<<20)
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Equal(t, "Mug", p.Title)
	assert.Equal(t, 12.5, *p.Price)
}

func TestJSONEmptyBodyIsFine(t *testing.T) {
	var p payload
	fields, err := bind.JSON(request(""), &p, 1<<20)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestJSONTypeMismatchIsFieldError(t *testing.T) {
	var p payload
	fields, err := bind.JSON(request(`{"price":"cheap"}`), &p, 1<<20)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "price", fields[0].Field)
}

func TestJSONMalformed(t *testing.T) {
	var p payload
	_, err := bind.JSON(request(`{"title":`), &p, 1<<20)
	assert.ErrorIs(t, err, bind.ErrMalformed)

	_, err = bind.JSON(request(`{"title":"`+strings.Repeat("x", 100)+`"}`), &p, 16)
	assert.ErrorIs(t, err, bind.ErrMalformed)
}
