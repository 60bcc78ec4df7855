package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/cache"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/informes"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/purchase"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/session"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/storage"
)

// PurchaseOptions carries the business constants of the purchase lists.
type PurchaseOptions struct {
	ReorderFactor    float64
	ReverseTaxFactor float64
	KeyColumn        string
}

type PurchaseService struct {
	repo       repository.CatalogRepository
	cache      cache.ResultCache
	sessions   *session.Store
	normalizer *informes.Normalizer
	archive    storage.ObjectStorage
	calc       *purchase.Calculator
	reconciler *purchase.Reconciler
	taxFactor  float64
	now        func() time.Time
}

func NewPurchaseService(
	repo repository.CatalogRepository,
	cacheImpl cache.ResultCache,
	sessions *session.Store,
	normalizer *informes.Normalizer,
	archive storage.ObjectStorage,
	opts PurchaseOptions,
) *PurchaseService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	if archive == nil {
		archive = storage.NoopStorage{}
	}
	if sessions == nil {
		sessions = session.NewStore()
	}
	calc := purchase.NewCalculator(opts.ReorderFactor)
	return &PurchaseService{
		repo:       repo,
		cache:      cacheImpl,
		sessions:   sessions,
		normalizer: normalizer,
		archive:    archive,
		calc:       calc,
		reconciler: purchase.NewReconciler(calc, opts.KeyColumn),
		taxFactor:  opts.ReverseTaxFactor,
		now:        time.Now,
	}
}

// Domestic returns the domestic-only purchase list of the filter window.
func (s *PurchaseService) Domestic(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticPurchase, domain.PurchaseSummary, error) {
	candidates, err := cached(ctx, s.cache, cache.KindPurchaseCandidates, filter.Key(), func() ([]domain.DomesticProduct, error) {
		rows, err := s.repo.PurchaseCandidates(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load purchase candidates: %w", err)
		}
		s.priceAll(rows)
		return rows, nil
	})
	if err != nil {
		return nil, domain.PurchaseSummary{}, err
	}

	list := purchase.DomesticPurchaseList(candidates, s.calc)
	return list, purchase.SummarizeDomestic(list), nil
}

// Foreign returns the Informes rows of the session that recommend a purchase.
// Brand and product filters apply; the date window does not, the file is
// already a period report.
func (s *PurchaseService) Foreign(ctx context.Context, sessionID string, filter domain.PurchaseFilter) ([]domain.ForeignCatalogRow, domain.PurchaseSummary, error) {
	catalog, err := s.sessions.Get(sessionID).Informes()
	if err != nil {
		return nil, domain.PurchaseSummary{}, err
	}

	rows := purchase.ForeignPurchaseList(filterForeign(catalog.Rows, filter))
	return rows, purchase.SummarizeForeign(rows), nil
}

// Combined reconciles the domestic catalog, with the window's sales joined by
// domestic code, against the session's Informes dataset.
func (s *PurchaseService) Combined(ctx context.Context, sessionID string, filter domain.PurchaseFilter) ([]domain.ReconciledDecision, domain.PurchaseSummary, error) {
	catalog, err := s.sessions.Get(sessionID).Informes()
	if err != nil {
		return nil, domain.PurchaseSummary{}, err
	}

	products, err := s.catalog(ctx, filter)
	if err != nil {
		return nil, domain.PurchaseSummary{}, err
	}

	sales, err := cached(ctx, s.cache, cache.KindSales, filter.Key(), func() ([]domain.SalesAggregate, error) {
		rows, err := s.repo.SalesByProduct(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate sales: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, domain.PurchaseSummary{}, err
	}

	decisions, err := s.reconciler.Reconcile(joinSales(products, sales), domain.ForeignCatalog{
		Name:    catalog.Name,
		Columns: catalog.Columns,
		Rows:    filterForeign(catalog.Rows, filter),
	})
	if err != nil {
		return nil, domain.PurchaseSummary{}, err
	}

	log.Debug().
		Str("session", session.NormalizeID(sessionID)).
		Int("domestic", len(products)).
		Int("foreign", len(catalog.Rows)).
		Int("decisions", len(decisions)).
		Bool("exclude_key_account", filter.ExcludeKeyAccount).
		Msg("purchase: reconciled")

	return decisions, purchase.SummarizeDecisions(decisions), nil
}

// UploadInformes normalizes an Informes workbook into the session. The raw
// file is archived to object storage when that succeeds; archive failures
// only log. A workbook with no usable product row is a malformed upload.
func (s *PurchaseService) UploadInformes(ctx context.Context, sessionID, fileName string, data []byte) (session.Status, error) {
	catalog, err := s.readInformes(fileName, data)
	if err != nil {
		return session.Status{}, err
	}

	sc := s.sessions.Get(sessionID)
	sc.Load(catalog)

	key := storage.InformesKey(sc.ID(), fileName, s.now())
	if err := s.archive.UploadObject(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("informes: archive upload failed")
	}

	status := sc.Status()
	log.Info().
		Str("session", status.SessionID).
		Str("file", fileName).
		Int("rows", status.Rows).
		Msg("informes: loaded")
	return status, nil
}

// RestoreInformes reloads the most recent archived upload of the session,
// e.g. after a restart emptied the in-memory sessions.
func (s *PurchaseService) RestoreInformes(ctx context.Context, sessionID string) (session.Status, error) {
	sc := s.sessions.Get(sessionID)
	objects, err := s.archive.ListObjects(ctx, storage.InformesPrefix(sc.ID()))
	if err != nil {
		return session.Status{}, fmt.Errorf("failed to list archived informes: %w", err)
	}
	latest, ok := storage.LatestObject(objects)
	if !ok {
		return session.Status{}, fmt.Errorf("no archived upload for session %s: %w", sc.ID(), domain.ErrNoInformes)
	}

	dir, err := os.MkdirTemp("", "informes-restore-*")
	if err != nil {
		return session.Status{}, fmt.Errorf("failed to create restore dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, "informes.xlsx")
	if err := s.archive.DownloadObject(ctx, latest.Key, dest); err != nil {
		return session.Status{}, fmt.Errorf("failed to download %s: %w", latest.Key, err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		return session.Status{}, fmt.Errorf("failed to read %s: %w", dest, err)
	}

	catalog, err := s.readInformes(storage.UploadedName(latest.Key), data)
	if err != nil {
		return session.Status{}, err
	}
	sc.Load(catalog)

	status := sc.Status()
	log.Info().
		Str("session", status.SessionID).
		Str("key", latest.Key).
		Int("rows", status.Rows).
		Msg("informes: restored from archive")
	return status, nil
}

func (s *PurchaseService) readInformes(fileName string, data []byte) (domain.ForeignCatalog, error) {
	catalog, err := s.normalizer.Catalog(fileName, bytes.NewReader(data))
	if errors.Is(err, domain.ErrNoData) {
		err = fmt.Errorf("%w: %v", domain.ErrMalformedSource, err)
	}
	if err != nil {
		return domain.ForeignCatalog{}, fmt.Errorf("failed to read informes %s: %w", fileName, err)
	}
	return catalog, nil
}

// ClearInformes empties the session and forgets it.
func (s *PurchaseService) ClearInformes(sessionID string) session.Status {
	sc := s.sessions.Get(sessionID)
	sc.Clear()
	s.sessions.Drop(sessionID)
	return sc.Status()
}

func (s *PurchaseService) InformesStatus(sessionID string) session.Status {
	return s.sessions.Get(sessionID).Status()
}

func (s *PurchaseService) Brands(ctx context.Context) ([]string, error) {
	return cached(ctx, s.cache, cache.KindLookups, "brands", func() ([]string, error) {
		return s.repo.Brands(ctx)
	})
}

func (s *PurchaseService) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, s.cache, cache.KindLookups, "categories", func() ([]string, error) {
		return s.repo.Categories(ctx)
	})
}

func (s *PurchaseService) catalog(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error) {
	// sales are joined separately, so the window is not part of the key
	key := filter
	key.Start, key.End, key.ExcludeKeyAccount = time.Time{}, time.Time{}, false
	return cached(ctx, s.cache, cache.KindCatalog, key.Key(), func() ([]domain.DomesticProduct, error) {
		rows, err := s.repo.Products(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		s.priceAll(rows)
		return rows, nil
	})
}

func (s *PurchaseService) priceAll(rows []domain.DomesticProduct) {
	for i := range rows {
		rows[i].UnitCost = purchase.ReverseTaxCost(rows[i].RawCost, s.taxFactor)
	}
}

// joinSales sets each product's QuantitySold from the aggregate with the same
// trimmed domestic code. Products without sales keep zero.
func joinSales(products []domain.DomesticProduct, sales []domain.SalesAggregate) []domain.DomesticProduct {
	sold := make(map[string]int, len(sales))
	for _, a := range sales {
		sold[strings.TrimSpace(a.ProductKey)] += a.QuantitySold
	}

	out := make([]domain.DomesticProduct, len(products))
	for i, p := range products {
		p.QuantitySold = sold[strings.TrimSpace(p.DomesticCode)]
		out[i] = p
	}
	return out
}

func filterForeign(rows []domain.ForeignCatalogRow, filter domain.PurchaseFilter) []domain.ForeignCatalogRow {
	product := strings.ToUpper(strings.TrimSpace(filter.Product))
	if !filter.HasBrand() && product == "" {
		return rows
	}

	out := make([]domain.ForeignCatalogRow, 0, len(rows))
	for _, r := range rows {
		if filter.HasBrand() && !strings.EqualFold(strings.TrimSpace(r.Brand), strings.TrimSpace(filter.Brand)) {
			continue
		}
		if product != "" && !strings.Contains(strings.ToUpper(r.ProductName), product) {
			continue
		}
		out = append(out, r)
	}
	return out
}
