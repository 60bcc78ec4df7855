package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/cache"
)

// cached returns the memoised value of kind/key or computes and stores it.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, c cache.ResultCache, kind, key string, load func() (T, error)) (T, error) {
	var value T
	if ok, err := c.Get(ctx, kind, key, &value); err == nil && ok {
		return value, nil
	} else if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("result cache get failed")
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, kind, key, value); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("result cache set failed")
	}
	return value, nil
}
