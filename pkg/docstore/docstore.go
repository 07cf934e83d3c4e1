// Package docstore is a thin, collection-addressed document store.
//
// Every implementation speaks the same small contract: insert a document and
// get its id back, find by exact-match filter, update one document, delete
// many, count. Filters are plain field → value maps; no operators.
//
//	id, err := store.Insert(ctx, "product", docstore.Document{"title": "Mug"})
//	doc, found, err := store.FindOne(ctx, "product", docstore.Filter{"title": "Mug"})
//
// A store that cannot be reached fails every call with ErrUnavailable, which
// callers must keep apart from an empty result.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDKey is the store-internal identifier field.
const IDKey = "_id"

// Document is one schemaless record.
type Document = map[string]any

// Filter is an exact-match field → value mapping. An empty filter matches
// every document in the collection.
type Filter = map[string]any

var (
	// ErrUnavailable means the store is down or was never initialised.
	ErrUnavailable = errors.New("docstore: store unavailable")

	// ErrDuplicateKey is returned by Insert when a unique index rejects the write.
	ErrDuplicateKey = errors.New("docstore: duplicate key")

	// ErrInvalidID is returned by ByID for strings that are not object ids.
	ErrInvalidID = errors.New("docstore: invalid id")
)

// Store is the CRUD contract used by repositories and services.
type Store interface {
	// Insert persists doc and returns its newly minted id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// Find returns up to limit matching documents in insertion order.
	// A limit of zero or less means no limit.
	Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error)

	// FindOne returns the first match. found is false when nothing matches.
	FindOne(ctx context.Context, collection string, filter Filter) (doc Document, found bool, err error)

	// UpdateOne sets every field in patch on the first match and reports
	// how many documents matched (0 or 1).
	UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error)

	// DeleteMany removes every match and reports how many were removed.
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)

	// Count reports how many documents match.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
}

// IndexSpec describes a single-field index.
type IndexSpec struct {
	Collection string
	Field      string
	Unique     bool
}

// Database is a Store plus the administrative surface used at boot,
// by diagnostics and by the CLI.
type Database interface {
	Store

	// Name is the logical database name.
	Name() string

	// Driver identifies the implementation ("mongo", "sql", "memory", "offline").
	Driver() string

	Ping(ctx context.Context) error

	// Collections lists the collection names that currently hold data.
	Collections(ctx context.Context) ([]string, error)

	EnsureIndexes(ctx context.Context, specs []IndexSpec) error

	Close(ctx context.Context) error
}

// NewID mints a fresh object id. Every implementation uses it so ids look
// the same regardless of backend.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// ByID builds a filter matching the document with the given hex id.
func ByID(id string) (Filter, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return Filter{IDKey: oid}, nil
}

// IDString renders whatever sits in doc["_id"] as a string.
func IDString(doc Document) string {
	switch v := doc[IDKey].(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Normalize returns a shallow copy of doc with the internal "_id" key
// replaced by a string "id".
func Normalize(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k == IDKey {
			continue
		}
		out[k] = v
	}
	if _, ok := doc[IDKey]; ok {
		out["id"] = IDString(doc)
	}
	return out
}

func unavailable(cause error) error {
	if cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, cause)
}
