package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
)

func TestBuildResultKey(t *testing.T) {
	a := buildResultKey(KindCatalog, "brand=ALFA")
	b := buildResultKey(KindCatalog, "brand=BETA")

	assert.True(t, strings.HasPrefix(a, "saudmed:result:catalog:"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, buildResultKey(KindCatalog, "brand=ALFA"))
	assert.Equal(t, "saudmed:result:sales:default", buildResultKey(KindSales, ""))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewResultCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, KindCatalog, "k", []int{1}))
	var out []int
	hit, err := c.Get(ctx, KindCatalog, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.InvalidateKind(ctx, KindCatalog))
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@localhost:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)

	opts, err = buildRedisOptions(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
}
