package docstore

import "context"

// Offline stands in when no store could be opened. Every operation fails
// with ErrUnavailable so handlers report 503 instead of empty results.
type Offline struct {
	name  string
	cause error
}

// NewOffline returns a Database that remembers why it is offline.
func NewOffline(name string, cause error) *Offline {
	return &Offline{name: name, cause: cause}
}

func (o *Offline) err() error { return unavailable(o.cause) }

func (o *Offline) Insert(context.Context, string, Document) (string, error) {
	return "", o.err()
}

func (o *Offline) Find(context.Context, string, Filter, int64) ([]Document, error) {
	return nil, o.err()
}

func (o *Offline) FindOne(context.Context, string, Filter) (Document, bool, error) {
	return nil, false, o.err()
}

func (o *Offline) UpdateOne(context.Context, string, Filter, Document) (int64, error) {
	return 0, o.err()
}

func (o *Offline) DeleteMany(context.Context, string, Filter) (int64, error) {
	return 0, o.err()
}

func (o *Offline) Count(context.Context, string, Filter) (int64, error) {
	return 0, o.err()
}

func (o *Offline) Name() string   { return o.name }
func (o *Offline) Driver() string { return "offline" }

func (o *Offline) Ping(context.Context) error { return o.err() }

func (o *Offline) Collections(context.Context) ([]string, error) { return nil, o.err() }

func (o *Offline) EnsureIndexes(context.Context, []IndexSpec) error { return o.err() }

func (o *Offline) Close(context.Context) error { return nil }
