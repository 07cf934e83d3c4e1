package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv       = "local"
	defaultPort         = "8000"
	defaultDatabaseURL  = "mongodb://localhost:27017"
	defaultDatabaseName = "storefront"
	defaultDocStore     = "mongo"
	defaultSQLDriver    = "sqlite"
	defaultSQLiteDSN    = "storefront.db"
	defaultRateLimit    = "200"
	defaultRateWindow   = "1m"
	defaultMaxBody      = "4194304"
)

// keys that are looked up in the process environment on Load.
var envKeys = []string{
	"APP_ENV", "PORT", "DATABASE_URL", "DATABASE_NAME", "DOC_STORE",
	"SQL_DRIVER", "SQL_DSN", "REDIS_ADDR", "REDIS_PASSWORD",
	"RATE_LIMIT", "RATE_WINDOW", "GRPC_PORT", "LOG_TO_MONGO", "AUTO_MIGRATE",
	"MAX_BODY_BYTES", "STORAGE_DISK", "STORAGE_LOCAL_ROOT", "STORAGE_URL",
	"S3_BUCKET", "S3_REGION", "S3_KEY", "S3_SECRET", "S3_ENDPOINT", "S3_URL",
}

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win. Safe to call many times; only the first call reads.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// Reload discards cached values and reads every source again.
// Mostly useful in tests after t.Setenv.
func Reload() error {
	loadErr = loadFromFiles("config/app.json", ".env")
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":      defaultAppEnv,
		"PORT":         defaultPort,
		"DOC_STORE":    defaultDocStore,
		"SQL_DRIVER":   defaultSQLDriver,
		"RATE_LIMIT":   defaultRateLimit,
		"RATE_WINDOW":  defaultRateWindow,
		"LOG_TO_MONGO": "false",
		"AUTO_MIGRATE": "true",
	}
}

func AppEnv() string { _ = Load(); return get("APP_ENV", defaultAppEnv) }

func IsProduction() bool {
	switch AppEnv() {
	case "production", "prod":
		return true
	}
	return false
}

// Port is the HTTP listen port.
func Port() string { _ = Load(); return get("PORT", defaultPort) }

// ── Document store ───────────────────────────────────────────────────────────

func DatabaseURL() string  { _ = Load(); return get("DATABASE_URL", defaultDatabaseURL) }
func DatabaseName() string { _ = Load(); return get("DATABASE_NAME", defaultDatabaseName) }

// DatabaseURLSet and DatabaseNameSet report whether the value was configured
// explicitly rather than falling back to a default.
func DatabaseURLSet() bool  { _ = Load(); return get("DATABASE_URL", "") != "" }
func DatabaseNameSet() bool { _ = Load(); return get("DATABASE_NAME", "") != "" }

// DocStore selects the document store implementation: mongo, sql or memory.
func DocStore() string {
	_ = Load()
	switch s := strings.ToLower(get("DOC_STORE", defaultDocStore)); s {
	case "mongo", "sql", "memory":
		return s
	default:
		return defaultDocStore
	}
}

func SQLDriver() string {
	_ = Load()
	switch d := strings.ToLower(get("SQL_DRIVER", defaultSQLDriver)); d {
	case "sqlite", "postgres", "mysql", "sqlserver":
		return d
	default:
		return defaultSQLDriver
	}
}

func SQLDSN() string {
	_ = Load()
	if dsn := get("SQL_DSN", ""); dsn != "" {
		return dsn
	}
	if SQLDriver() == "sqlite" {
		return defaultSQLiteDSN
	}
	return ""
}

func AutoMigrate() bool { return Bool("AUTO_MIGRATE", true) }

// ── Redis / rate limiting ────────────────────────────────────────────────────

// RedisAddr is empty when Redis is not configured; the rate limiter then
// keeps its counters in memory.
func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", "") }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

// RateLimit is the number of requests allowed per client per RateWindow.
// Zero disables the limiter.
func RateLimit() int {
	n, err := strconv.Atoi(Get("RATE_LIMIT", defaultRateLimit))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func RateWindow() time.Duration {
	d, err := time.ParseDuration(Get("RATE_WINDOW", defaultRateWindow))
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// ── Misc ─────────────────────────────────────────────────────────────────────

// GRPCPort is empty when the gRPC health server is disabled.
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", "") }

func LogToMongo() bool { return Bool("LOG_TO_MONGO", false) }

func MaxBodyBytes() int64 {
	n, err := strconv.ParseInt(Get("MAX_BODY_BYTES", defaultMaxBody), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:"+Port()+"/storage")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64, bool:
			out[k] = fmt.Sprint(v)
		}
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	parsed, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for key, value := range parsed {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Bool reads a boolean key; unparsable values yield fallback.
func Bool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(Get(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}
