package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Database. Documents keep insertion order per
// collection. It backs the test suites and DOC_STORE=memory.
type Memory struct {
	mu          sync.RWMutex
	name        string
	collections map[string][]Document
	unique      map[string][]string // collection → unique fields
}

// NewMemory returns an empty in-memory database.
func NewMemory(name string) *Memory {
	return &Memory{
		name:        name,
		collections: make(map[string][]Document),
		unique:      make(map[string][]string),
	}
}

func (m *Memory) Insert(_ context.Context, collection string, doc Document) (string, error) {
	stored := cloneDocument(doc)
	if _, ok := stored[IDKey]; !ok {
		stored[IDKey] = NewID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, field := range m.unique[collection] {
		val, ok := stored[field]
		if !ok {
			continue
		}
		for _, existing := range m.collections[collection] {
			if other, ok := existing[field]; ok && equal(other, val) {
				return "", fmt.Errorf("%w: %s.%s", ErrDuplicateKey, collection, field)
			}
		}
	}

	m.collections[collection] = append(m.collections[collection], stored)
	return IDString(stored), nil
}

func (m *Memory) Find(_ context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Document, 0)
	for _, doc := range m.collections[collection] {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if matches(doc, filter) {
			out = append(out, cloneDocument(doc))
		}
	}
	return out, nil
}

func (m *Memory) FindOne(_ context.Context, collection string, filter Filter) (Document, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			return cloneDocument(doc), true, nil
		}
	}
	return nil, false, nil
}

func (m *Memory) UpdateOne(_ context.Context, collection string, filter Filter, patch Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.collections[collection] {
		if !matches(doc, filter) {
			continue
		}
		for k, v := range patch {
			if k == IDKey {
				continue
			}
			doc[k] = clone(v)
		}
		return 1, nil
	}
	return 0, nil
}

func (m *Memory) DeleteMany(_ context.Context, collection string, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	kept := docs[:0]
	var removed int64
	for _, doc := range docs {
		if matches(doc, filter) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	m.collections[collection] = kept
	return removed, nil
}

func (m *Memory) Count(_ context.Context, collection string, filter Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Name() string   { return m.name }
func (m *Memory) Driver() string { return "memory" }

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Collections(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name, docs := range m.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// EnsureIndexes records unique specs and enforces them on later inserts.
// Non-unique specs are accepted and ignored.
func (m *Memory) EnsureIndexes(_ context.Context, specs []IndexSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ix := range specs {
		if !ix.Unique {
			continue
		}
		fields := m.unique[ix.Collection]
		known := false
		for _, f := range fields {
			if f == ix.Field {
				known = true
				break
			}
		}
		if !known {
			m.unique[ix.Collection] = append(fields, ix.Field)
		}
	}
	return nil
}

func (m *Memory) Close(context.Context) error { return nil }
