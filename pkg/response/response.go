// Package response writes JSON bodies and the error envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/schema"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  []schema.FieldError `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v) //nolint:errcheck
}

// OK sends a 200 with v as the body.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Error sends the error envelope with no field details.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Status: status, Message: message})
}

// ValidationError sends a 422 with field-level errors.
func ValidationError(w http.ResponseWriter, fields []schema.FieldError) {
	JSON(w, http.StatusUnprocessableEntity, ErrorBody{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// Fail classifies err and sends the matching envelope. Internal and store
// errors are logged with their full cause.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)
	status := ae.Status()

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"kind", ae.Kind.String(),
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	JSON(w, status, ErrorBody{Status: status, Message: ae.Message, Errors: ae.Fields})
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
