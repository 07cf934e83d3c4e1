// Package migrations keeps the document store's indexes in shape.
//
// Each migration registers itself from init():
//
//	func init() {
//	    Register("20250101000000_blogpost_slug_unique", Indexes(
//	        docstore.IndexSpec{Collection: "blogpost", Field: "slug", Unique: true},
//	    ))
//	}
//
// Migrations must be idempotent. Run applies all of them on every call
// (the memory and sql stores keep unique constraints in process, so they
// need them again after each start) and records first applications in the
// storefront_migrations collection.
package migrations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Collection tracks applied migrations.
const Collection = "storefront_migrations"

// Migration is implemented by every migration.
type Migration interface {
	Up(ctx context.Context, db docstore.Database) error
}

// Indexes is a migration that ensures a set of indexes.
type Indexes []docstore.IndexSpec

func (ix Indexes) Up(ctx context.Context, db docstore.Database) error {
	return db.EnsureIndexes(ctx, ix)
}

type entry struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []entry
)

// Register adds a migration. Names are timestamp-prefixed and migrations
// run in registration order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, entry{name: name, m: m})
}

// Names lists registered migrations in order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()

	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.name
	}
	return out
}

// Status is one row of Report.
type Status struct {
	Name    string
	Applied bool
	Batch   int
}

// Run applies every registered migration and returns the names applied for
// the first time.
func Run(ctx context.Context, db docstore.Database) ([]string, error) {
	mu.Lock()
	current := append([]entry(nil), registry...)
	mu.Unlock()

	applied, lastBatch, err := appliedBatches(ctx, db)
	if err != nil {
		return nil, err
	}

	var fresh []string
	batch := lastBatch + 1
	for _, e := range current {
		if err := e.m.Up(ctx, db); err != nil {
			return fresh, fmt.Errorf("migration %q: %w", e.name, err)
		}
		if _, ok := applied[e.name]; ok {
			continue
		}

		if _, err := db.Insert(ctx, Collection, docstore.Document{
			"name":   e.name,
			"batch":  batch,
			"run_at": time.Now().UTC(),
		}); err != nil {
			return fresh, fmt.Errorf("migration %q: record: %w", e.name, err)
		}
		logger.WithCtx(ctx).Info("migration applied", "name", e.name, "batch", batch)
		fresh = append(fresh, e.name)
	}
	return fresh, nil
}

// Report lists every registered migration with its applied batch.
func Report(ctx context.Context, db docstore.Database) ([]Status, error) {
	applied, _, err := appliedBatches(ctx, db)
	if err != nil {
		return nil, err
	}

	names := Names()
	out := make([]Status, len(names))
	for i, n := range names {
		b, ok := applied[n]
		out[i] = Status{Name: n, Applied: ok, Batch: b}
	}
	return out, nil
}

func appliedBatches(ctx context.Context, db docstore.Database) (map[string]int, int, error) {
	docs, err := db.Find(ctx, Collection, nil, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("migrations: read %s: %w", Collection, err)
	}

	applied := make(map[string]int, len(docs))
	last := 0
	for _, d := range docs {
		name, _ := d["name"].(string)
		batch := toInt(d["batch"])
		applied[name] = batch
		if batch > last {
			last = batch
		}
	}
	return applied, last, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
