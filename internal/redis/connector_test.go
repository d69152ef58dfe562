package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/conexus/internal/logger"
)

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), ConnectOptions{Addr: mr.Addr()}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewFailsFastWithoutProbeBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), ConnectOptions{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
	}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unreachable at "+addr)
}
