package docstore

import (
	"context"
	"time"
)

// Observer receives one call per store operation.
type Observer func(op, collection string, start time.Time, err error)

// Instrument wraps db so every Store call is reported to obs.
func Instrument(db Database, obs Observer) Database {
	if obs == nil {
		return db
	}
	return &instrumented{Database: db, obs: obs}
}

type instrumented struct {
	Database
	obs Observer
}

func (i *instrumented) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	start := time.Now()
	id, err := i.Database.Insert(ctx, collection, doc)
	i.obs("insert", collection, start, err)
	return id, err
}

func (i *instrumented) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	start := time.Now()
	docs, err := i.Database.Find(ctx, collection, filter, limit)
	i.obs("find", collection, start, err)
	return docs, err
}

func (i *instrumented) FindOne(ctx context.Context, collection string, filter Filter) (Document, bool, error) {
	start := time.Now()
	doc, found, err := i.Database.FindOne(ctx, collection, filter)
	i.obs("find_one", collection, start, err)
	return doc, found, err
}

func (i *instrumented) UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error) {
	start := time.Now()
	n, err := i.Database.UpdateOne(ctx, collection, filter, patch)
	i.obs("update", collection, start, err)
	return n, err
}

func (i *instrumented) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	start := time.Now()
	n, err := i.Database.DeleteMany(ctx, collection, filter)
	i.obs("delete", collection, start, err)
	return n, err
}

func (i *instrumented) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	start := time.Now()
	n, err := i.Database.Count(ctx, collection, filter)
	i.obs("count", collection, start, err)
	return n, err
}

// Unwrap returns the wrapped database.
func (i *instrumented) Unwrap() Database { return i.Database }
