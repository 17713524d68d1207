package media_storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/itww/admin-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	signCalls int
	deleted   []string
}

func (s *countingStore) Put(context.Context, string, string, io.Reader, int64, string) (string, error) {
	return "k", nil
}

func (s *countingStore) SignedReadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.signCalls++
	return "https://signed/" + key + "?n=" + string(rune('0'+s.signCalls)), nil
}

func (s *countingStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func setupCachedSigner(t *testing.T, maxTTL time.Duration) (*countingStore, *miniredis.Miniredis, *cachedSigner) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingStore{}
	return inner, mr, NewCachedSigner(inner, rdb, maxTTL, logger.NewNop()).(*cachedSigner)
}

func TestCachedSigner_ReusesURL(t *testing.T) {
	inner, mr, c := setupCachedSigner(t, 12*time.Hour)
	ctx := context.Background()

	first, err := c.SignedReadURL(ctx, "blogs/1-a.png", time.Hour)
	require.NoError(t, err)
	second, err := c.SignedReadURL(ctx, "blogs/1-a.png", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.signCalls)
	assert.Equal(t, 30*time.Minute, mr.TTL(signedURLKey("blogs/1-a.png", time.Hour)))

	mr.FastForward(31 * time.Minute)
	third, err := c.SignedReadURL(ctx, "blogs/1-a.png", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Equal(t, 2, inner.signCalls)
}

func TestCachedSigner_CapsAtMaxTTL(t *testing.T) {
	_, mr, c := setupCachedSigner(t, 12*time.Hour)

	_, err := c.SignedReadURL(context.Background(), "blogs/1-a.png", 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, mr.TTL(signedURLKey("blogs/1-a.png", 365*24*time.Hour)))
}

func TestCachedSigner_DeleteEvicts(t *testing.T) {
	inner, mr, c := setupCachedSigner(t, time.Hour)
	ctx := context.Background()

	_, err := c.SignedReadURL(ctx, "blogs/1-a.png", time.Hour)
	require.NoError(t, err)
	_, err = c.SignedReadURL(ctx, "blogs/2-b.png", time.Hour)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "blogs/1-a.png"))
	assert.Equal(t, []string{"blogs/1-a.png"}, inner.deleted)
	assert.False(t, mr.Exists(signedURLKey("blogs/1-a.png", time.Hour)))
	assert.True(t, mr.Exists(signedURLKey("blogs/2-b.png", time.Hour)))
}

func TestCachedSigner_RedisDownFallsBack(t *testing.T) {
	inner, mr, c := setupCachedSigner(t, time.Hour)
	mr.Close()

	u, err := c.SignedReadURL(context.Background(), "blogs/1-a.png", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, u)
	assert.Equal(t, 1, inner.signCalls)
}
