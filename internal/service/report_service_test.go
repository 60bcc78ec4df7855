package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

type fakeReportRepo struct {
	freight    []domain.FreightCharge
	controlled []domain.ControlledSale
	filters    []domain.PurchaseFilter
	calls      int
	err        error
}

func (f *fakeReportRepo) FreightCharges(ctx context.Context, filter domain.PurchaseFilter) ([]domain.FreightCharge, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	return append([]domain.FreightCharge(nil), f.freight...), f.err
}

func (f *fakeReportRepo) ControlledSales(ctx context.Context, filter domain.PurchaseFilter) ([]domain.ControlledSale, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	return append([]domain.ControlledSale(nil), f.controlled...), f.err
}

func TestReportServiceFreightAddsAdjustment(t *testing.T) {
	repo := &fakeReportRepo{freight: []domain.FreightCharge{
		{SaleID: 1, RawFreight: "15,50"},
		{SaleID: 2, RawFreight: "0,00"},
		{SaleID: 3, RawFreight: "4.50"},
	}}
	adjustments := &memoryAdjustment{value: decimal.RequireFromString("10")}
	svc := NewReportService(repo, newMemoryCache(), adjustments)
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	filter := domain.PurchaseFilter{Start: start, End: start.AddDate(0, 1, 0), Brand: "ALFA"}

	got, err := svc.Freight(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Sales)
	assert.Equal(t, "20", got.FreightTotal.String())
	assert.Equal(t, "30", got.TotalWithAdjustment.String())
	assert.Empty(t, repo.filters[0].Brand, "freight only takes the window")

	adjustments.value = decimal.RequireFromString("-5")
	got, err = svc.Freight(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, "15", got.TotalWithAdjustment.String())
	assert.Equal(t, "20", got.Rows[0].FreightValue.Add(got.Rows[1].FreightValue).String(), "parsed values survive the cache")
	assert.Equal(t, 1, repo.calls)
}

func TestReportServiceFreightNoData(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{freight: []domain.FreightCharge{{RawFreight: "0"}}}, nil, &memoryAdjustment{})
	_, err := svc.Freight(context.Background(), domain.PurchaseFilter{})
	assert.True(t, errors.Is(err, domain.ErrNoData))
}

func TestReportServiceControlled(t *testing.T) {
	repo := &fakeReportRepo{controlled: []domain.ControlledSale{
		{RawName: "CRM - UNID ZOLPIDEM 10MG", Quantity: 2, UnitLabel: "CX"},
	}}
	svc := NewReportService(repo, newMemoryCache(), &memoryAdjustment{})
	ctx := context.Background()

	rows, err := svc.Controlled(ctx, domain.PurchaseFilter{Brand: "ALFA", Category: "CABELO"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ZOLPIDEM 10MG", rows[0].Medication)
	assert.Equal(t, "2 CX", rows[0].QuantityText)
	assert.Equal(t, "ALFA", repo.filters[0].Brand)
	assert.Empty(t, repo.filters[0].Category)

	rows, err = svc.Controlled(ctx, domain.PurchaseFilter{Brand: "ALFA", Category: "OUTRA"})
	require.NoError(t, err)
	assert.Equal(t, "ZOLPIDEM 10MG", rows[0].Medication)
	assert.Equal(t, 1, repo.calls, "category does not split the cache")

	repo.controlled = nil
	_, err = svc.Controlled(ctx, domain.PurchaseFilter{Brand: "BETA"})
	assert.True(t, errors.Is(err, domain.ErrNoData))
}

func TestReportServiceRepoError(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{err: errors.New("db down")}, nil, &memoryAdjustment{})
	_, err := svc.Freight(context.Background(), domain.PurchaseFilter{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNoData))
}
