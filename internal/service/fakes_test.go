package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/drive"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/storage"
)

type fakeCatalogRepo struct {
	candidates []domain.DomesticProduct
	products   []domain.DomesticProduct
	sales      []domain.SalesAggregate
	keySales   []domain.SalesAggregate
	brands     []string
	calls      map[string]int
	err        error
}

func (f *fakeCatalogRepo) hit(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeCatalogRepo) PurchaseCandidates(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error) {
	f.hit("candidates")
	return append([]domain.DomesticProduct(nil), f.candidates...), f.err
}

func (f *fakeCatalogRepo) Products(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error) {
	f.hit("products")
	return append([]domain.DomesticProduct(nil), f.products...), f.err
}

func (f *fakeCatalogRepo) SalesByProduct(ctx context.Context, filter domain.PurchaseFilter) ([]domain.SalesAggregate, error) {
	f.hit("sales")
	if filter.ExcludeKeyAccount {
		return f.keySales, f.err
	}
	return f.sales, f.err
}

func (f *fakeCatalogRepo) Brands(ctx context.Context) ([]string, error) {
	f.hit("brands")
	return f.brands, f.err
}

func (f *fakeCatalogRepo) Categories(ctx context.Context) ([]string, error) {
	f.hit("categories")
	return []string{"CABELO"}, f.err
}

// memoryCache stores JSON like the redis cache does, so fields hidden from
// JSON are lost exactly as in production.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, kind, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.items[kind+":"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (m *memoryCache) Set(ctx context.Context, kind, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[kind+":"+key] = payload
	return nil
}

func (m *memoryCache) InvalidateKind(ctx context.Context, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, kind+":") {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *memoryCache) InvalidateAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = map[string][]byte{}
	return nil
}

type fakeArchive struct {
	keys    []string
	objects map[string][]byte
	err     error
}

func (f *fakeArchive) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeArchive) DownloadObject(ctx context.Context, key, destPath string) error {
	data, ok := f.objects[key]
	if !ok {
		return fmt.Errorf("no object %s", key)
	}
	return os.WriteFile(destPath, data, 0644)
}

func (f *fakeArchive) UploadObject(ctx context.Context, key string, data []byte) error {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

type fakeLedger struct {
	rows  []domain.InfoserveRow
	err   error
	loads int
}

func (f *fakeLedger) Load(ctx context.Context) ([]domain.InfoserveRow, error) {
	f.loads++
	return f.rows, f.err
}

type fakeSyncer struct {
	folderID string
	destDir  string
	names    []string
}

func (f *fakeSyncer) Sync(ctx context.Context, folderID, destDir string, names []string) (*drive.SyncResult, error) {
	f.folderID, f.destDir, f.names = folderID, destDir, names
	return &drive.SyncResult{Downloaded: names}, nil
}

type memoryAdjustment struct {
	value decimal.Decimal
}

func (m *memoryAdjustment) Get(ctx context.Context) (decimal.Decimal, error) {
	return m.value, nil
}

func (m *memoryAdjustment) Set(ctx context.Context, value decimal.Decimal) error {
	m.value = value
	return nil
}
