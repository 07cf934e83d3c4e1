package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterWindows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCounter()
	c.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, _ := c.Incr(ctx, "5.6.7.8", time.Minute)
	assert.Equal(t, int64(1), n, "keys are independent")

	now = now.Add(time.Minute)
	n, _ = c.Incr(ctx, "1.2.3.4", time.Minute)
	assert.Equal(t, int64(1), n, "window resets")
}

func TestMemoryCounterSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCounter()
	c.now = func() time.Time { return now }

	_, _ = c.Incr(ctx, "a", time.Second)
	_, _ = c.Incr(ctx, "b", time.Second)

	now = now.Add(2 * time.Second)
	_, _ = c.Incr(ctx, "c", time.Second)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.entries, 1)
	assert.Contains(t, c.entries, "c")
}

func TestConnectUnreachableRedis(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1", "")
	assert.Error(t, err)
}
