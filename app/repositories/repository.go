// Package repositories maps records to documents and back.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

const (
	createdAtKey = "created_at"
	updatedAtKey = "updated_at"
)

// Repository is a typed view over one collection. T must be a bson-mappable
// struct whose id field is tagged `bson:"_id,omitempty"`.
type Repository[T any] struct {
	store      docstore.Store
	collection string
	now        func() time.Time
}

// New returns a repository for collection backed by store.
func New[T any](store docstore.Store, collection string) *Repository[T] {
	return &Repository[T]{
		store:      store,
		collection: collection,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Collection is the backing collection name.
func (r *Repository[T]) Collection() string { return r.collection }

// Create stamps and inserts rec and returns the new id.
func (r *Repository[T]) Create(ctx context.Context, rec *T) (string, error) {
	doc, err := toDocument(rec)
	if err != nil {
		return "", fmt.Errorf("%s: encode: %w", r.collection, err)
	}
	delete(doc, docstore.IDKey)

	now := r.now()
	doc[createdAtKey] = now
	doc[updatedAtKey] = now

	return r.store.Insert(ctx, r.collection, doc)
}

// All returns up to limit records in insertion order; limit <= 0 means all.
func (r *Repository[T]) All(ctx context.Context, limit int64) ([]T, error) {
	return r.Where(ctx, nil, limit)
}

// Where returns up to limit records matching filter.
func (r *Repository[T]) Where(ctx context.Context, filter docstore.Filter, limit int64) ([]T, error) {
	docs, err := r.store.Find(ctx, r.collection, filter, limit)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := fromDocument(doc, &rec); err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", r.collection, docstore.IDString(doc), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// FindBy returns the first record matching filter.
func (r *Repository[T]) FindBy(ctx context.Context, filter docstore.Filter) (*T, bool, error) {
	doc, found, err := r.store.FindOne(ctx, r.collection, filter)
	if err != nil || !found {
		return nil, false, err
	}

	var rec T
	if err := fromDocument(doc, &rec); err != nil {
		return nil, false, fmt.Errorf("%s: decode %s: %w", r.collection, docstore.IDString(doc), err)
	}
	return &rec, true, nil
}

// FindByID looks a record up by hex id. Malformed ids are reported as not
// found.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, bool, error) {
	filter, err := docstore.ByID(id)
	if errors.Is(err, docstore.ErrInvalidID) {
		return nil, false, nil
	}
	return r.FindBy(ctx, filter)
}

// UpdateByID sets the fields in patch and bumps updated_at. It reports
// whether a record matched.
func (r *Repository[T]) UpdateByID(ctx context.Context, id string, patch docstore.Document) (bool, error) {
	filter, err := docstore.ByID(id)
	if errors.Is(err, docstore.ErrInvalidID) {
		return false, nil
	}

	set := make(docstore.Document, len(patch)+1)
	for k, v := range patch {
		set[k] = v
	}
	set[updatedAtKey] = r.now()

	n, err := r.store.UpdateOne(ctx, r.collection, filter, set)
	return n > 0, err
}

// DeleteAll empties the collection.
func (r *Repository[T]) DeleteAll(ctx context.Context) (int64, error) {
	return r.store.DeleteMany(ctx, r.collection, docstore.Filter{})
}

func (r *Repository[T]) Count(ctx context.Context, filter docstore.Filter) (int64, error) {
	return r.store.Count(ctx, r.collection, filter)
}

func (r *Repository[T]) Exists(ctx context.Context, filter docstore.Filter) (bool, error) {
	_, found, err := r.store.FindOne(ctx, r.collection, filter)
	return found, err
}

func toDocument(v any) (docstore.Document, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return docstore.Document(m), nil
}

func fromDocument(doc docstore.Document, dest any) error {
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, dest)
}
