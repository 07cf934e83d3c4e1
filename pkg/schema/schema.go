// Package schema validates records before they reach the document store.
//
// Records declare their rules with `validate` struct tags (go-playground
// validator syntax) and may implement Defaulter to fill optional fields.
// Field names in errors are the JSON names, with nested paths such as
// items[0].title.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Reason }

// Defaulter is implemented by records with default values. ApplyDefaults
// only fills fields the caller left unset.
type Defaulter interface {
	ApplyDefaults()
}

var (
	validate = newValidator()

	mu       sync.RWMutex
	registry []entry
)

type entry struct {
	name  string
	proto reflect.Type
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Register associates a collection with its record type. Registration
// order is the order Collections reports.
func Register(collection string, proto any) {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(proto)
	for i, e := range registry {
		if e.name == collection {
			registry[i].proto = t
			return
		}
	}
	registry = append(registry, entry{name: collection, proto: t})
}

// Collections lists registered collection names in registration order.
func Collections() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Prepare applies defaults and validates v in one step.
func Prepare(v any) []FieldError {
	if d, ok := v.(Defaulter); ok {
		d.ApplyDefaults()
	}
	return Validate(v)
}

// Validate checks v against its tags. A nil slice means v is valid.
func Validate(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Reason: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Reason: reason(fe)})
	}
	return out
}

// fieldPath drops the root struct name from the namespace:
// "Order.items[0].title" becomes "items[0].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}
