package logger

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sinkQueueSize  = 4096
	sinkBatchSize  = 50
	sinkFlushEvery = 2 * time.Second
	sinkTimeout    = 5 * time.Second
)

// LogEntry is one record as stored in the log collection.
type LogEntry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// batchWriter is the part of *mongo.Collection the sink needs.
type batchWriter interface {
	InsertMany(ctx context.Context, docs []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// sink owns the queue and the flushing goroutine shared by every handler
// derived from one MongoHandler.
type sink struct {
	w       batchWriter
	queue   chan LogEntry
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// MongoHandler is a slog.Handler that ships records at or above its level
// to a MongoDB collection. Handle never blocks: entries are queued and
// written in batches by one goroutine, and a full queue drops the entry.
type MongoHandler struct {
	sink   *sink
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string // dotted group path applied to record attrs
}

// NewMongoHandler writes to col, which stays owned by the caller. Close
// must run before the client disconnects. A nil level means INFO.
func NewMongoHandler(col *mongo.Collection, level slog.Leveler) *MongoHandler {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "time", Value: -1}}})

	return newMongoHandler(col, level, sinkFlushEvery)
}

func newMongoHandler(w batchWriter, level slog.Leveler, every time.Duration) *MongoHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	s := &sink{
		w:       w,
		queue:   make(chan LogEntry, sinkQueueSize),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(every)
	return &MongoHandler{sink: s, level: level}
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Time:  r.Time.UTC(),
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	for _, a := range h.attrs {
		entry.add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" && a.Key != "request_id" {
			a.Key = h.prefix + a.Key
		}
		entry.add(a)
		return true
	})
	if len(entry.Attrs) == 0 {
		entry.Attrs = nil
	}

	select {
	case h.sink.queue <- entry:
	default:
		h.sink.dropped.Add(1)
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" && a.Key != "request_id" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// Dropped is the number of entries lost to a full queue.
func (h *MongoHandler) Dropped() int64 { return h.sink.dropped.Load() }

// Close writes everything still queued and stops the flusher. Safe to call
// more than once.
func (h *MongoHandler) Close() {
	h.sink.once.Do(func() { close(h.sink.stop) })
	<-h.sink.stopped
}

// add stores a, keeping request_id as a top-level field and flattening
// groups into dotted keys.
func (e *LogEntry) add(a slog.Attr) {
	a.Value = a.Value.Resolve()
	switch {
	case a.Key == "request_id":
		e.RequestID = a.Value.String()
	case a.Value.Kind() == slog.KindGroup:
		for _, ga := range a.Value.Group() {
			ga.Key = strings.TrimPrefix(a.Key+"."+ga.Key, ".")
			e.add(ga)
		}
	case a.Key != "":
		e.Attrs[a.Key] = a.Value.Any()
	}
}

func (s *sink) run(every time.Duration) {
	defer close(s.stopped)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	batch := make([]interface{}, 0, sinkBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		_, _ = s.w.InsertMany(ctx, batch)
		batch = make([]interface{}, 0, sinkBatchSize)
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= sinkBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stop:
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, e)
					if len(batch) >= sinkBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
