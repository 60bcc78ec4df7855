// Package report derives the freight and controlled-substance lists from the
// rows the ERP returns.
package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// ParseAmount reads a money value typed into an ERP text field. A comma marks
// the Brazilian format ("1.234,56"); otherwise a dot is the decimal separator.
// Unreadable text is zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if raw == "" {
		return decimal.Zero
	}
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// PrepareFreight parses each charge's freight value and keeps the charges
// with a positive one.
func PrepareFreight(rows []domain.FreightCharge) []domain.FreightCharge {
	out := make([]domain.FreightCharge, 0, len(rows))
	for _, r := range rows {
		r.FreightValue = ParseAmount(r.RawFreight)
		if !r.FreightValue.IsPositive() {
			continue
		}
		r.Seller = strings.TrimSpace(r.Seller)
		r.Carrier = strings.TrimSpace(r.Carrier)
		r.Customer = strings.TrimSpace(r.Customer)
		out = append(out, r)
	}
	return out
}

func SummarizeFreight(rows []domain.FreightCharge, adjustment decimal.Decimal) domain.FreightReport {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.FreightValue)
	}
	return domain.FreightReport{
		Rows:                rows,
		Sales:               len(rows),
		FreightTotal:        total,
		Adjustment:          adjustment,
		TotalWithAdjustment: total.Add(adjustment),
	}
}

var medicationPrefixes = []string{"CRM - UNID", "CRM - "}

// MedicationName strips the register prefix the ERP puts on controlled products.
func MedicationName(raw string) string {
	name := strings.TrimSpace(raw)
	upper := strings.ToUpper(name)
	for _, prefix := range medicationPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	return name
}

// QuantityText renders "qty unit", or just qty without a unit.
func QuantityText(qty int, unit string) string {
	if unit = strings.TrimSpace(unit); unit == "" {
		return strconv.Itoa(qty)
	}
	return strconv.Itoa(qty) + " " + unit
}

func PrepareControlled(rows []domain.ControlledSale) []domain.ControlledSale {
	out := make([]domain.ControlledSale, len(rows))
	for i, r := range rows {
		r.Medication = MedicationName(r.RawName)
		r.UnitLabel = strings.TrimSpace(r.UnitLabel)
		r.QuantityText = QuantityText(r.Quantity, r.UnitLabel)
		r.Invoice = strings.TrimSuffix(strings.TrimSpace(r.Invoice), ".0")
		out[i] = r
	}
	return out
}
