package sessions_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/sessions"
)

func TestMemoryRevocations_RevokeAndExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	m := sessions.NewMemoryRevocations()
	m.SetClock(func() time.Time { return now })

	ok, err := m.IsRevoked(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Revoke(ctx, "h1", time.Hour))
	ok, err = m.IsRevoked(ctx, "h1")
	require.NoError(t, err)
	assert.True(t, ok)

	// после истечения ttl токен и так невалиден, запись больше не нужна
	now = now.Add(time.Hour + time.Second)
	ok, err = m.IsRevoked(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRevocations_NonPositiveTTLIsNoop(t *testing.T) {
	ctx := context.Background()
	m := sessions.NewMemoryRevocations()

	require.NoError(t, m.Revoke(ctx, "h1", 0))
	require.NoError(t, m.Revoke(ctx, "h2", -time.Minute))

	ok, _ := m.IsRevoked(ctx, "h1")
	assert.False(t, ok)
	ok, _ = m.IsRevoked(ctx, "h2")
	assert.False(t, ok)
}

// Интеграционный тест, нужен живой Redis:
// TEST_REDIS_ADDR=localhost:6379 go test ./internal/server/sessions/...
func TestRedisRevocations_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	ctx := context.Background()

	rdb, err := sessions.NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	r := sessions.NewRedisRevocations(rdb)
	hash := "test-" + time.Now().Format("150405.000000000")

	ok, err := r.IsRevoked(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Revoke(ctx, hash, time.Minute))
	ok, err = r.IsRevoked(ctx, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := rdb.TTL(ctx, "revoked:"+hash).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
