// Package app boots the storefront: configuration, logging, the document
// store, the rate-limit counter and the HTTP kernel.
//
//	func main() {
//	    a := app.New().
//	        Routes(routes.RegisterAPI).
//	        OnBoot(func(ctx context.Context, db docstore.Database) error {
//	            _, err := migrations.Run(ctx, db)
//	            return err
//	        })
//	    if err := a.Boot(ctx); err != nil { ... }
//	    defer a.Close(context.Background())
//	    a.Serve(ctx)
//	}
//
// A store that cannot be reached at boot does not stop the server: the
// application starts with an offline store and every store-backed
// endpoint answers 503 until it is restarted.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// LogCollection receives log records when LOG_TO_MONGO is set.
const LogCollection = "app_logs"

// RouteFunc mounts routes backed by db.
type RouteFunc func(r *router.Router, db docstore.Database) error

// BootFunc runs once the store is open. Errors are logged, not fatal.
type BootFunc func(ctx context.Context, db docstore.Database) error

// Application is built with New, configured with the builder methods,
// then booted.
type Application struct {
	routeFns []RouteFunc
	bootFns  []BootFunc

	// DB is the instrumented store. Set it before Boot to skip OpenStore.
	DB docstore.Database
	// Limiter backs the rate limiter. Set it before Boot to skip Redis.
	Limiter cache.Counter

	raw     docstore.Database
	logSink *logger.MongoHandler
	redis   *redis.Client
}

func New() *Application {
	return &Application{}
}

// Routes registers a route callback. Callbacks run in order when the
// handler is built.
func (a *Application) Routes(fn RouteFunc) *Application {
	a.routeFns = append(a.routeFns, fn)
	return a
}

// OnBoot registers a hook that runs at the end of Boot.
func (a *Application) OnBoot(fn BootFunc) *Application {
	a.bootFns = append(a.bootFns, fn)
	return a
}

// WithStore uses db instead of opening the configured store.
func (a *Application) WithStore(db docstore.Database) *Application {
	a.DB = db
	return a
}

// Boot loads configuration and connects every backing service.
func (a *Application) Boot(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup(config.AppEnv())

	if a.DB == nil {
		raw, err := OpenStore(ctx)
		if err != nil {
			logger.Warn("document store unavailable; starting degraded",
				"driver", config.DocStore(), "error", err)
			raw = docstore.NewOffline(config.DatabaseName(), err)
		}
		a.raw = raw
		a.DB = docstore.Instrument(raw, metrics.ObserveStoreOp)
	}

	if m, ok := a.raw.(*docstore.Mongo); ok && config.LogToMongo() {
		a.logSink = logger.NewMongoHandler(m.Database().Collection(LogCollection), slog.LevelInfo)
		logger.Setup(config.AppEnv(), a.logSink)
	}

	if a.Limiter == nil {
		a.Limiter = a.openLimiter(ctx)
	}

	for _, fn := range a.bootFns {
		if err := fn(ctx, a.DB); err != nil {
			logger.Warn("boot hook failed", "error", err)
		}
	}

	logger.Info("storefront booted",
		"env", config.AppEnv(),
		"store", a.DB.Driver(),
		"database", a.DB.Name(),
		"rate_limiter", a.Limiter.Driver(),
	)
	return nil
}

// OpenStore connects the store selected by DOC_STORE.
func OpenStore(ctx context.Context) (docstore.Database, error) {
	name := config.DatabaseName()

	switch config.DocStore() {
	case "memory":
		return docstore.NewMemory(name), nil
	case "sql":
		db, err := docstore.OpenSQL(ctx, config.SQLDriver(), config.SQLDSN(), name)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		db, err := docstore.OpenMongo(ctx, config.DatabaseURL(), name)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

func (a *Application) openLimiter(ctx context.Context) cache.Counter {
	addr := config.RedisAddr()
	if addr == "" {
		return cache.NewMemoryCounter()
	}

	rdb, err := cache.Connect(ctx, addr, config.RedisPassword())
	if err != nil {
		logger.Warn("redis unavailable; rate limiting in memory", "addr", addr, "error", err)
		return cache.NewMemoryCounter()
	}
	a.redis = rdb
	return cache.NewRedisCounter(rdb, "storefront:")
}

// Close releases the store, the log sink and Redis.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close(ctx))
	}
	if a.logSink != nil {
		a.logSink.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
