package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/cache"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/report"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
)

type ReportService struct {
	repo        repository.ReportRepository
	cache       cache.ResultCache
	adjustments repository.AdjustmentStore
}

func NewReportService(repo repository.ReportRepository, cacheImpl cache.ResultCache, adjustments repository.AdjustmentStore) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &ReportService{repo: repo, cache: cacheImpl, adjustments: adjustments}
}

// Freight lists the outsourced delivery fees of the window. The adjustment is
// read on every call and added to the total, so a new value shows at once.
func (s *ReportService) Freight(ctx context.Context, filter domain.PurchaseFilter) (domain.FreightReport, error) {
	window := domain.PurchaseFilter{Start: filter.Start, End: filter.End}
	rows, err := cached(ctx, s.cache, cache.KindFreight, window.Key(), func() ([]domain.FreightCharge, error) {
		rows, err := s.repo.FreightCharges(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("failed to load freight charges: %w", err)
		}
		return report.PrepareFreight(rows), nil
	})
	if err != nil {
		return domain.FreightReport{}, err
	}
	if len(rows) == 0 {
		return domain.FreightReport{}, fmt.Errorf("no freight charges in the window: %w", domain.ErrNoData)
	}

	adjustment, err := s.adjustments.Get(ctx)
	if err != nil {
		return domain.FreightReport{}, fmt.Errorf("failed to read adjustment: %w", err)
	}

	out := report.SummarizeFreight(rows, adjustment)
	log.Debug().
		Int("sales", out.Sales).
		Str("freight_total", out.FreightTotal.StringFixed(2)).
		Str("total_with_adjustment", out.TotalWithAdjustment.StringFixed(2)).
		Msg("report: freight")
	return out, nil
}

// Controlled lists the controlled-substance sales of the window.
func (s *ReportService) Controlled(ctx context.Context, filter domain.PurchaseFilter) ([]domain.ControlledSale, error) {
	filter.Category, filter.ExcludeKeyAccount = "", false
	rows, err := cached(ctx, s.cache, cache.KindControlled, filter.Key(), func() ([]domain.ControlledSale, error) {
		rows, err := s.repo.ControlledSales(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load controlled sales: %w", err)
		}
		return report.PrepareControlled(rows), nil
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no controlled sales in the window: %w", domain.ErrNoData)
	}
	return rows, nil
}
