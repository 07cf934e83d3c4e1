package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

func TestSetupProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.SetupWriter(&buf, "production")

	log.Debug("hidden")
	log.Info("order created", "order_id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order created", line["msg"])
	assert.Equal(t, "abc", line["order_id"])
}

func TestWithCtxPrefersInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWriter(&buf, "local")

	tagged := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "r-1")
	ctx := logger.InjectLogger(context.Background(), tagged)

	logger.WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=r-1")

	assert.Same(t, logger.L, logger.WithCtx(context.Background()))
}

type captureHandler struct{ records []slog.Record }

func (c *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (c *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c.records = append(c.records, r)
	return nil
}
func (c *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *captureHandler) WithGroup(string) slog.Handler      { return c }

func TestSetupFansOutToExtraHandlers(t *testing.T) {
	var buf bytes.Buffer
	extra := &captureHandler{}
	log := logger.SetupWriter(&buf, "local", extra)

	log.Warn("store offline")

	assert.Contains(t, buf.String(), "store offline")
	require.Len(t, extra.records, 1)
	assert.Equal(t, "store offline", extra.records[0].Message)
}
