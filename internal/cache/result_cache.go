package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
)

const (
	resultKeyPrefix     = "saudmed:result"
	resultScanBatchSize = 100
)

// Kinds of memoised results.
const (
	KindPurchaseCandidates = "purchase_candidates"
	KindCatalog            = "catalog"
	KindSales              = "sales"
	KindInfoserveLedger    = "infoserve_ledger"
	KindLookups            = "lookups"
	KindFreight            = "freight"
	KindControlled         = "controlled"
)

// ResultCache memoises query results for a bounded time. A miss is never an
// error; callers recompute and store.
type ResultCache interface {
	Get(ctx context.Context, kind, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, kind, key string, value interface{}) error
	InvalidateKind(ctx context.Context, kind string) error
	InvalidateAll(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Dur("ttl", ttl).Msg("redis result cache enabled")

	return &redisResultCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) Get(ctx context.Context, kind, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, buildResultKey(kind, key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s cache: %w", kind, err)
	}
	return true, nil
}

func (c *redisResultCache) Set(ctx context.Context, kind, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", kind, err)
	}

	if err := c.client.Set(ctx, buildResultKey(kind, key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisResultCache) InvalidateKind(ctx context.Context, kind string) error {
	return deleteKeysWithPrefix(ctx, c.client, resultKeyPrefix+":"+kind+":", resultScanBatchSize)
}

func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, resultKeyPrefix+":", resultScanBatchSize)
}

func (n *noopResultCache) Get(ctx context.Context, kind, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (n *noopResultCache) Set(ctx context.Context, kind, key string, value interface{}) error {
	return nil
}

func (n *noopResultCache) InvalidateKind(ctx context.Context, kind string) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildResultKey(kind, key string) string {
	return fmt.Sprintf("%s:%s:%s", resultKeyPrefix, kind, hashKey(key))
}

func hashKey(key string) string {
	if key == "" {
		return "default"
	}
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
