package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	_ = Load()
	t.Cleanup(func() { _ = Reload() })

	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "app.json"), filepath.Join(dir, ".env")))

	assert.Equal(t, "8000", get("PORT", defaultPort))
	assert.Equal(t, "mongo", DocStore())
	assert.Equal(t, 200, RateLimit())
	assert.Equal(t, time.Minute, RateWindow())
	assert.True(t, AutoMigrate())
	assert.False(t, LogToMongo())
	assert.Equal(t, int64(4<<20), MaxBodyBytes())
}

func TestPrecedence(t *testing.T) {
	_ = Load()
	t.Cleanup(func() { _ = Reload() })

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"port": 9000,
		"database_name": "from_json",
		"doc_store": "sql",
		"log_to_mongo": true
	}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("DATABASE_NAME=from_dotenv\nSQL_DRIVER=postgres\n"), 0o644))
	t.Setenv("SQL_DRIVER", "mysql")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9000", get("PORT", ""))
	assert.Equal(t, "from_dotenv", get("DATABASE_NAME", ""))
	assert.Equal(t, "sql", get("DOC_STORE", ""))
	assert.Equal(t, "mysql", get("SQL_DRIVER", ""))
	assert.Equal(t, "true", get("LOG_TO_MONGO", ""))
}

func TestBadJSONConfigFails(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{`), 0o644))

	err := loadFromFiles(jsonPath, filepath.Join(dir, ".env"))
	assert.Error(t, err)
}

func TestDerivedValues(t *testing.T) {
	_ = Load()
	t.Cleanup(func() { _ = Reload() })

	t.Setenv("DOC_STORE", "Cassandra")
	t.Setenv("SQL_DRIVER", "oracle")
	t.Setenv("SQL_DSN", "")
	t.Setenv("RATE_LIMIT", "-5")
	t.Setenv("RATE_WINDOW", "soon")
	t.Setenv("MAX_BODY_BYTES", "0")
	t.Setenv("AUTO_MIGRATE", "nope")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_NAME", "shop")
	require.NoError(t, Reload())

	assert.Equal(t, "mongo", DocStore())
	assert.Equal(t, "sqlite", SQLDriver())
	assert.Equal(t, "storefront.db", SQLDSN())
	assert.Equal(t, 0, RateLimit())
	assert.Equal(t, time.Minute, RateWindow())
	assert.Equal(t, int64(4<<20), MaxBodyBytes())
	assert.True(t, AutoMigrate())

	assert.False(t, DatabaseURLSet())
	assert.Equal(t, "mongodb://localhost:27017", DatabaseURL())
	assert.True(t, DatabaseNameSet())
	assert.Equal(t, "shop", DatabaseName())
}

func TestIsProduction(t *testing.T) {
	_ = Load()
	t.Cleanup(func() { _ = Reload() })

	t.Setenv("APP_ENV", "prod")
	require.NoError(t, Reload())

	assert.True(t, IsProduction())
}
