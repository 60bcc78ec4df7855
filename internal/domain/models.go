package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRecord is a domestic catalog entry. ForeignCode is the cross-reference
// to the foreign market and may be empty.
type ProductRecord struct {
	DomesticCode string          `json:"domestic_code" db:"domestic_code"`
	ForeignCode  string          `json:"foreign_code" db:"foreign_code"`
	Name         string          `json:"product_name" db:"product_name"`
	Brand        string          `json:"brand" db:"brand"`
	Category     string          `json:"category" db:"category"`
	RawCost      decimal.Decimal `json:"-" db:"raw_cost"`
	UnitCost     decimal.Decimal `json:"unit_cost" db:"-"`
	UnitLabel    string          `json:"unit" db:"unit_label"`
	LastSupplier string          `json:"last_supplier" db:"last_supplier"`
	LastEntry    *time.Time      `json:"last_entry,omitempty" db:"last_entry"`
}

// DomesticProduct is a catalog entry with stock on hand and the sales of the
// reporting window joined in.
type DomesticProduct struct {
	ProductRecord
	StockOnHand  int `json:"stock" db:"stock_on_hand"`
	QuantitySold int `json:"quantity_sold" db:"quantity_sold"`
	SalesCount   int `json:"sales_count" db:"sales_count"`
}

// SalesAggregate is the quantity sold of one product over a period.
type SalesAggregate struct {
	ProductKey   string `json:"product_key" db:"product_key"`
	QuantitySold int    `json:"quantity_sold" db:"quantity_sold"`
}

// DomesticPurchase is a row of the single-country domestic purchase list.
type DomesticPurchase struct {
	DomesticProduct
	Recommendation int             `json:"recommendation"`
	PredictedCost  decimal.Decimal `json:"predicted_cost"`
	Text           string          `json:"text"`
}

// ForeignCatalogRow is a normalized row of the Informes spreadsheet.
type ForeignCatalogRow struct {
	ForeignCode    string `json:"foreign_code"`
	ProductName    string `json:"product_name"`
	Brand          string `json:"brand"`
	SalesQty       int    `json:"sales_qty"`
	StockQty       int    `json:"stock_qty"`
	Recommendation int    `json:"recommendation"`
	Text           string `json:"text"`
}

// ReconciledDecision is the cross-border purchase decision for one product.
type ReconciledDecision struct {
	DomesticCode string          `json:"domestic_code"`
	ForeignCode  string          `json:"foreign_code"`
	ProductName  string          `json:"product_name"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	UnitLabel    string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`

	DomesticStock          int `json:"domestic_stock"`
	DomesticSales          int `json:"domestic_sales"`
	DomesticRecommendation int `json:"domestic_recommendation"`
	ForeignStock           int `json:"foreign_stock"`
	ForeignSales           int `json:"foreign_sales"`
	ForeignRecommendation  int `json:"foreign_recommendation"`

	CanCoverFromDomesticExcess bool            `json:"can_cover_from_domestic_excess"`
	FinalDomesticPurchaseQty   int             `json:"final_domestic_purchase_qty"`
	FinalTransferQty           int             `json:"final_transfer_qty"`
	PredictedCost              decimal.Decimal `json:"predicted_cost"`
	PurchaseText               string          `json:"purchase_text"`
	TransferText               string          `json:"transfer_text"`
}

// InfoserveRow is one line of the foreign point-of-sale movement ledger.
// Date is nil when the source date could not be parsed.
type InfoserveRow struct {
	Date         *time.Time `json:"date"`
	Invoice      int        `json:"invoice"`
	CustomerCode int        `json:"customer_code"`
	CustomerName string     `json:"customer_name"`
	ProductCode  int        `json:"product_code"`
	ProductName  string     `json:"product_name"`
	Quantity     int        `json:"quantity"`
}

// PurchaseSummary is the metrics block shown above every purchase list.
type PurchaseSummary struct {
	Products           int             `json:"products"`
	TotalPredictedCost decimal.Decimal `json:"total_predicted_cost"`
}

// ForeignCatalog is a normalized Informes upload: the column labels it was
// read with and its rows.
type ForeignCatalog struct {
	Name    string              `json:"name"`
	Columns []string            `json:"columns"`
	Rows    []ForeignCatalogRow `json:"rows"`
}

func (c ForeignCatalog) HasColumn(name string) bool {
	for _, col := range c.Columns {
		if col == name {
			return true
		}
	}
	return false
}
