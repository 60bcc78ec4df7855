package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/cache"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/drive"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/infoserve"
)

const ledgerCacheKey = "ledger"

// ErrSyncNotConfigured is returned by Sync when no Drive folder is set up.
var ErrSyncNotConfigured = errors.New("infoserve sync is not configured")

// LedgerLoader reads the enriched Infoserve movement ledger.
type LedgerLoader interface {
	Load(ctx context.Context) ([]domain.InfoserveRow, error)
}

// ExportSyncer refreshes the local Infoserve exports from a remote folder.
type ExportSyncer interface {
	Sync(ctx context.Context, folderID, destDir string, names []string) (*drive.SyncResult, error)
}

// InfoserveOptions are the filter choices offered for the movement report.
type InfoserveOptions struct {
	Customers []string   `json:"customers"`
	Products  []string   `json:"products"`
	MinDate   *time.Time `json:"min_date,omitempty"`
	MaxDate   *time.Time `json:"max_date,omitempty"`
}

type InfoserveService struct {
	loader   LedgerLoader
	cache    cache.ResultCache
	syncer   ExportSyncer
	folderID string
	cfg      config.InfoserveConfig
}

// NewInfoserveService builds the report service. syncer may be nil when no
// Drive folder is configured.
func NewInfoserveService(loader LedgerLoader, cacheImpl cache.ResultCache, cfg config.InfoserveConfig, syncer ExportSyncer, folderID string) *InfoserveService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &InfoserveService{
		loader:   loader,
		cache:    cacheImpl,
		syncer:   syncer,
		folderID: folderID,
		cfg:      cfg,
	}
}

// Report returns the filtered ledger in load order, newest first.
func (s *InfoserveService) Report(ctx context.Context, filter domain.InfoserveFilter) ([]domain.InfoserveRow, error) {
	rows, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	return infoserve.Filter(rows, filter), nil
}

func (s *InfoserveService) Options(ctx context.Context) (InfoserveOptions, error) {
	rows, err := s.ledger(ctx)
	if err != nil {
		return InfoserveOptions{}, err
	}
	minDate, maxDate := infoserve.DateBounds(rows)
	return InfoserveOptions{
		Customers: infoserve.DistinctCustomers(rows),
		Products:  infoserve.DistinctProducts(rows),
		MinDate:   minDate,
		MaxDate:   maxDate,
	}, nil
}

// Sync downloads the three exports and drops the memoised ledger.
func (s *InfoserveService) Sync(ctx context.Context) (*drive.SyncResult, error) {
	if s.syncer == nil || s.folderID == "" {
		return nil, ErrSyncNotConfigured
	}

	names := []string{s.cfg.Movements.File, s.cfg.Customers.File, s.cfg.Products.File}
	result, err := s.syncer.Sync(ctx, s.folderID, s.cfg.Dir, names)
	if err != nil {
		return nil, fmt.Errorf("failed to sync infoserve exports: %w", err)
	}

	if err := s.cache.InvalidateKind(ctx, cache.KindInfoserveLedger); err != nil {
		log.Warn().Err(err).Msg("infoserve: ledger cache invalidation failed")
	}
	return result, nil
}

func (s *InfoserveService) ledger(ctx context.Context) ([]domain.InfoserveRow, error) {
	return cached(ctx, s.cache, cache.KindInfoserveLedger, ledgerCacheKey, func() ([]domain.InfoserveRow, error) {
		return s.loader.Load(ctx)
	})
}
