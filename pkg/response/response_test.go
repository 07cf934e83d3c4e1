package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/schema"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFailMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.New(apperr.BadRequest, "Cart is empty"), http.StatusBadRequest, "Cart is empty"},
		{apperr.New(apperr.Conflict, "Slug already exists"), http.StatusBadRequest, "Slug already exists"},
		{apperr.New(apperr.NotFound, "Order not found"), http.StatusNotFound, "Order not found"},
		{fmt.Errorf("find: %w", docstore.ErrUnavailable), http.StatusServiceUnavailable, "Database not available"},
		{errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		assert.Equal(t, tc.status, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, tc.msg, body.Message)
	}
}

func TestValidationErrorListsFields(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationError(rec, []schema.FieldError{{Field: "title", Reason: "field required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "title", body.Errors[0].Field)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestJSONKeepsURLsLiteral(t *testing.T) {
	rec := httptest.NewRecorder()
	response.OK(rec, map[string]string{"payment_url": "/api/checkout/confirm?order_id=o1&status=paid"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/api/checkout/confirm?order_id=o1&status=paid"`)
	assert.NotContains(t, rec.Body.String(), `\u0026`)
}
