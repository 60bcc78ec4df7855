package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// CatalogRepository is the domestic data collaborator: catalog, stock and
// aggregated sales of the store's ERP database.
type CatalogRepository interface {
	// PurchaseCandidates lists products sold in the filter window with their
	// sales joined in, for the domestic purchase list.
	PurchaseCandidates(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error)
	// Products lists the active catalog with stock on hand and no sales.
	Products(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error)
	// SalesByProduct aggregates quantities sold per domestic code. With
	// filter.ExcludeKeyAccount set, sales to the key account are left out.
	SalesByProduct(ctx context.Context, filter domain.PurchaseFilter) ([]domain.SalesAggregate, error)
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

// ReportRepository reads the sale-level ERP reports.
type ReportRepository interface {
	// FreightCharges lists the sales of the window with the freight custom
	// field set, newest first. Only the window of filter applies.
	FreightCharges(ctx context.Context, filter domain.PurchaseFilter) ([]domain.FreightCharge, error)
	// ControlledSales lists the sold lines of the controlled-substance group
	// in the window, narrowed by brand and product.
	ControlledSales(ctx context.Context, filter domain.PurchaseFilter) ([]domain.ControlledSale, error)
}

// AdjustmentStore persists the single manual correction added to the freight total.
type AdjustmentStore interface {
	Get(ctx context.Context) (decimal.Decimal, error)
	Set(ctx context.Context, value decimal.Decimal) error
}
