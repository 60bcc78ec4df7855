package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FreightCharge is a sale with an outsourced delivery fee recorded in the
// ERP's freight custom field. RawFreight is the field text as stored.
type FreightCharge struct {
	InvoicedAt    time.Time       `json:"invoiced_at" db:"invoiced_at"`
	SaleID        int64           `json:"sale_id" db:"sale_id"`
	Seller        string          `json:"seller" db:"seller"`
	ProductsValue decimal.Decimal `json:"products_value" db:"products_value"`
	Carrier       string          `json:"carrier" db:"carrier"`
	RawFreight    string          `json:"-" db:"raw_freight"`
	FreightValue  decimal.Decimal `json:"freight_value" db:"-"`
	Customer      string          `json:"customer" db:"customer"`
}

// FreightReport is the freight list of a window with its totals.
// TotalWithAdjustment is FreightTotal plus the persisted manual adjustment.
type FreightReport struct {
	Rows                []FreightCharge `json:"rows"`
	Sales               int             `json:"sales"`
	FreightTotal        decimal.Decimal `json:"freight_total"`
	Adjustment          decimal.Decimal `json:"adjustment"`
	TotalWithAdjustment decimal.Decimal `json:"total_with_adjustment"`
}

// ControlledSale is one sold line of a controlled-substance product with the
// buyer details kept for the prescription register.
type ControlledSale struct {
	InvoicedAt   time.Time `json:"invoiced_at" db:"invoiced_at"`
	Seller       string    `json:"seller" db:"seller"`
	RawName      string    `json:"-" db:"raw_name"`
	Medication   string    `json:"medication" db:"-"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitLabel    string    `json:"unit" db:"unit_label"`
	QuantityText string    `json:"quantity_sold" db:"-"`
	Batch        string    `json:"batch" db:"batch"`
	SaleID       int64     `json:"sale_id" db:"sale_id"`
	Invoice      string    `json:"invoice" db:"invoice"`
	Customer     string    `json:"customer" db:"customer"`
	Address      string    `json:"address" db:"address"`
	CNPJ         string    `json:"cnpj" db:"cnpj"`
	CPF          string    `json:"cpf" db:"cpf"`
	Document     string    `json:"document" db:"document"`
}
