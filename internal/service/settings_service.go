package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/cache"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
)

type SettingsService struct {
	store repository.AdjustmentStore
	cache cache.ResultCache
}

func NewSettingsService(store repository.AdjustmentStore, cacheImpl cache.ResultCache) *SettingsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &SettingsService{store: store, cache: cacheImpl}
}

func (s *SettingsService) Adjustment(ctx context.Context) (decimal.Decimal, error) {
	return s.store.Get(ctx)
}

func (s *SettingsService) SetAdjustment(ctx context.Context, value decimal.Decimal) error {
	if err := s.store.Set(ctx, value); err != nil {
		return fmt.Errorf("failed to save adjustment: %w", err)
	}
	return nil
}

// FlushCache drops every memoised result, so the next request reads the
// database and the exports again.
func (s *SettingsService) FlushCache(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to flush result cache: %w", err)
	}
	log.Info().Msg("settings: result cache flushed")
	return nil
}
