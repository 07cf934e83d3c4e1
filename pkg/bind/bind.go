// Package bind decodes an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/schema"
)

// ErrMalformed is returned for bodies that are not JSON or are too large.
var ErrMalformed = errors.New("bind: malformed body")

// JSON decodes r.Body into dest, capped at maxBytes. An empty body leaves
// dest untouched. A value of the wrong JSON type is reported as a field
// error rather than ErrMalformed.
func JSON(r *http.Request, dest any, maxBytes int64) ([]schema.FieldError, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []schema.FieldError{{
			Field:  field,
			Reason: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}, nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return nil, fmt.Errorf("%w: request body too large (max %d bytes)", ErrMalformed, maxErr.Limit)
	}
	return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
}
