package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/conexus/internal/config"
	"github.com/MrSnakeDoc/conexus/internal/logger"
	"github.com/MrSnakeDoc/conexus/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/conexus/internal/store/redis"
)

func baseConfig(store string) *config.Config {
	return &config.Config{
		ListenAddr:      "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		LogLevel:        "error",
		Store:           store,
		DBQueryTimeout:  time.Second,
		MaxBodyBytes:    1 << 20,
		RedisDT:         time.Second,
		RedisRT:         time.Second,
		RedisWT:         time.Second,
		RedisPoolSize:   2,
	}
}

func TestOpenStoreMemory(t *testing.T) {
	store, closeFn, err := openStore(context.Background(), baseConfig(config.StoreMemory), logger.Nop())

	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.Store{}, store)
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig(config.StoreRedis)
	cfg.RedisAddr = mr.Addr()

	store, closeFn, err := openStore(context.Background(), cfg, logger.Nop())

	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &redisstore.Store{}, store)
}

func TestOpenStoreRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := baseConfig(config.StoreRedis)
	cfg.RedisAddr = addr

	_, _, err := openStore(context.Background(), cfg, logger.Nop())

	assert.ErrorContains(t, err, "redis unreachable at "+addr)
}

func TestOpenStoreUnknown(t *testing.T) {
	_, _, err := openStore(context.Background(), baseConfig("sqlite"), logger.Nop())
	assert.ErrorContains(t, err, `unknown store "sqlite"`)
}

func TestNewRejectsUnknownStage(t *testing.T) {
	cfg := baseConfig(config.StoreMemory)
	cfg.DisabledStages = []string{"compress", "gzip"}

	_, err := New(context.Background(), cfg)

	assert.ErrorContains(t, err, "gzip")
}

func TestNewMemory(t *testing.T) {
	cfg := baseConfig(config.StoreMemory)
	cfg.DisabledStages = []string{"trace"}

	a, err := New(context.Background(), cfg)

	require.NoError(t, err)
	assert.NotNil(t, a.server)
	assert.NotNil(t, a.store)
}
