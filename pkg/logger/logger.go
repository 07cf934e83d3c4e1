// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger installed by the Logger middleware,
// so handler and service log lines carry the request_id:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order created", "order_id", id)
//	// → time=... level=INFO msg="order created" request_id=6f1c... order_id=65f...
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu sync.RWMutex
	L  = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
)

// Setup installs the base logger: JSON at INFO in production, text at DEBUG
// elsewhere. Extra handlers (e.g. a MongoHandler) receive every record too.
func Setup(env string, extra ...slog.Handler) *slog.Logger {
	return SetupWriter(os.Stdout, env, extra...)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, env string, extra ...slog.Handler) *slog.Logger {
	var handler slog.Handler
	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}

	log := slog.New(handler)

	mu.Lock()
	L = log
	mu.Unlock()
	slog.SetDefault(log)

	return log
}

func base() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return L
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base
// logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return base()
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { base().Debug(msg, args...) }
func Info(msg string, args ...any)  { base().Info(msg, args...) }
func Warn(msg string, args ...any)  { base().Warn(msg, args...) }
func Error(msg string, args ...any) { base().Error(msg, args...) }
