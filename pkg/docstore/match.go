package docstore

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches reports whether every filter field is present in doc with an
// equal value. Used by the stores that evaluate filters in process.
func matches(doc Document, filter Filter) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok || !equal(got, want) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			return af == bf
		}
		return false
	}
	if ao, ok := a.(primitive.ObjectID); ok {
		switch bo := b.(type) {
		case primitive.ObjectID:
			return ao == bo
		case string:
			return ao.Hex() == bo
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// clone deep-copies the map and slice shapes a Document can hold so callers
// never share mutable state with a store.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = clone(val)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = clone(val)
		}
		return out
	default:
		return v
	}
}

func cloneDocument(doc Document) Document {
	return clone(doc).(map[string]any)
}
