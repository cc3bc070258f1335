package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8082", cfg.Server.GRPCPort)
	assert.Equal(t, 2, cfg.Sales.LowStockThreshold)
	assert.False(t, cfg.Sales.FallbackToFirstProduct)
	assert.Equal(t, "retail_data_v6", cfg.Store.SnapshotKey)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("LOW_STOCK_THRESHOLD", "nope")
	t.Setenv("SALE_FALLBACK_FIRST_PRODUCT", "true")

	cfg := LoadEnv()
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.Sales.LowStockThreshold)
	assert.True(t, cfg.Sales.FallbackToFirstProduct)
}

func TestGetEnvSlice_EmptyDisables(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDRESSES", "")
	assert.Empty(t, LoadEnv().Elastic.Addresses)
}
