// Package seeders provides a registry of document store seed functions.
//
// Define a seeder in any file in this package:
//
//	func init() {
//	    Register("products", SeedProducts)
//	}
//
// Then run it with: storefront seed [--force]
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

// Options are passed to every seeder.
type Options struct {
	// Force replaces existing data instead of skipping.
	Force bool
}

// SeederFunc seeds one area and returns a one-line summary.
type SeederFunc func(ctx context.Context, store docstore.Store, opts Options) (string, error)

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Call it from init().
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order, writing
// progress to out. It stops on the first error.
func RunAll(ctx context.Context, store docstore.Store, opts Options, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		summary, err := e.fn(ctx, store, opts)
		if err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintf(out, "done (%s)\n", summary)
	}
	return nil
}
