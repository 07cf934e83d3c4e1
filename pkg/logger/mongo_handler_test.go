package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu      sync.Mutex
	entries []LogEntry
	calls   int
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, d := range docs {
		f.entries = append(f.entries, d.(LogEntry))
	}
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeCollection) snapshot() []LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LogEntry(nil), f.entries...)
}

func TestMongoHandlerShipsEntriesOnClose(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col, slog.LevelInfo, time.Hour)
	log := slog.New(h).With("request_id", "r-1")

	log.Debug("not shipped")
	log.Info("order created", "order_id", "abc", "amount", 1180.0)
	log.WithGroup("store").Warn("slow", "op", "find", slog.Group("q", "limit", 20))
	h.Close()

	got := col.snapshot()
	require.Len(t, got, 2)

	assert.Equal(t, "order created", got[0].Msg)
	assert.Equal(t, "INFO", got[0].Level)
	assert.Equal(t, "r-1", got[0].RequestID)
	assert.Equal(t, "abc", got[0].Attrs["order_id"])
	assert.Equal(t, 1180.0, got[0].Attrs["amount"])

	assert.Equal(t, "WARN", got[1].Level)
	assert.Equal(t, "r-1", got[1].RequestID)
	assert.Equal(t, "find", got[1].Attrs["store.op"])
	assert.EqualValues(t, 20, got[1].Attrs["store.q.limit"])
}

func TestMongoHandlerFlushesInBatches(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col, nil, time.Hour)
	log := slog.New(h)

	for i := 0; i < sinkBatchSize*2+1; i++ {
		log.Info("tick", "i", i)
	}
	h.Close()
	h.Close()

	assert.Len(t, col.snapshot(), sinkBatchSize*2+1)
	assert.Equal(t, 3, col.calls)
	assert.Zero(t, h.Dropped())
}

func TestMongoHandlerFlushesOnTick(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col, slog.LevelInfo, 10*time.Millisecond)
	t.Cleanup(h.Close)

	slog.New(h).Error("boom")

	assert.Eventually(t, func() bool { return len(col.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	col := &fakeCollection{}
	sink := newMongoHandler(col, slog.LevelWarn, time.Hour)
	capture := &recordCounter{}

	log := slog.New(NewMultiHandler(capture, sink))
	log.Info("info only to capture")
	log.Error("error to both")
	sink.Close()

	assert.Equal(t, 2, capture.n)
	require.Len(t, col.snapshot(), 1)
	assert.Equal(t, "error to both", col.snapshot()[0].Msg)
}

type recordCounter struct{ n int }

func (c *recordCounter) Enabled(context.Context, slog.Level) bool  { return true }
func (c *recordCounter) Handle(context.Context, slog.Record) error { c.n++; return nil }
func (c *recordCounter) WithAttrs([]slog.Attr) slog.Handler        { return c }
func (c *recordCounter) WithGroup(string) slog.Handler             { return c }
