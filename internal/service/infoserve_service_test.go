package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ledgerRows() []domain.InfoserveRow {
	return []domain.InfoserveRow{
		{Date: day(2024, 3, 2), Invoice: 3, CustomerName: "ANA", ProductName: "GEL", Quantity: 2},
		{Date: day(2024, 3, 1), Invoice: 2, CustomerName: "BETO", ProductName: "TINTE", Quantity: 1},
		{Date: nil, Invoice: 1, CustomerName: "N/D", ProductName: "GEL", Quantity: 5},
	}
}

func TestInfoserveServiceReport(t *testing.T) {
	loader := &fakeLedger{rows: ledgerRows()}
	svc := NewInfoserveService(loader, newMemoryCache(), config.DefaultInfoserveConfig(t.TempDir(), "latin1", 7), nil, "")
	ctx := context.Background()

	rows, err := svc.Report(ctx, domain.InfoserveFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = svc.Report(ctx, domain.InfoserveFilter{Start: day(2024, 3, 2), End: day(2024, 3, 2)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Invoice)

	rows, err = svc.Report(ctx, domain.InfoserveFilter{Products: []string{"GEL"}})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, 1, loader.loads, "ledger is memoised")
}

func TestInfoserveServiceOptions(t *testing.T) {
	svc := NewInfoserveService(&fakeLedger{rows: ledgerRows()}, nil, config.DefaultInfoserveConfig(t.TempDir(), "latin1", 7), nil, "")

	opts, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ANA", "BETO", "N/D"}, opts.Customers)
	assert.Equal(t, []string{"GEL", "TINTE"}, opts.Products)
	require.NotNil(t, opts.MinDate)
	require.NotNil(t, opts.MaxDate)
	assert.Equal(t, 1, opts.MinDate.Day())
	assert.Equal(t, 2, opts.MaxDate.Day())
}

func TestInfoserveServiceNoData(t *testing.T) {
	svc := NewInfoserveService(&fakeLedger{err: domain.ErrNoData}, nil, config.DefaultInfoserveConfig(t.TempDir(), "latin1", 7), nil, "")

	_, err := svc.Report(context.Background(), domain.InfoserveFilter{})
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestInfoserveServiceSync(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultInfoserveConfig(dir, "latin1", 7)
	loader := &fakeLedger{rows: ledgerRows()}
	syncer := &fakeSyncer{}
	c := newMemoryCache()
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		svc := NewInfoserveService(loader, c, cfg, nil, "")
		_, err := svc.Sync(ctx)
		assert.ErrorIs(t, err, ErrSyncNotConfigured)
	})

	svc := NewInfoserveService(loader, c, cfg, syncer, "folder-1")
	_, err := svc.Report(ctx, domain.InfoserveFilter{})
	require.NoError(t, err)

	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, "folder-1", syncer.folderID)
	assert.Equal(t, dir, syncer.destDir)
	assert.Equal(t, []string{"movto_productos.txt", "lista_de_clientes.txt", "lista_del_stock.txt"}, result.Downloaded)

	_, err = svc.Report(ctx, domain.InfoserveFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, loader.loads, "sync drops the memoised ledger")
}

func TestSettingsService(t *testing.T) {
	svc := NewSettingsService(&memoryAdjustment{}, nil)
	ctx := context.Background()

	v, err := svc.Adjustment(ctx)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	require.NoError(t, svc.SetAdjustment(ctx, decimal.RequireFromString("12.5")))
	v, err = svc.Adjustment(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12.5", v.String())
}

func TestSettingsServiceFlushCache(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "catalog", "k", []string{"x"}))
	require.NoError(t, c.Set(ctx, "lookups", "brands", []string{"ALFA"}))

	require.NoError(t, NewSettingsService(&memoryAdjustment{}, c).FlushCache(ctx))

	var out []string
	found, err := c.Get(ctx, "lookups", "brands", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, c.items)
}
