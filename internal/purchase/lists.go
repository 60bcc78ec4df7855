package purchase

import (
	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// DomesticPurchaseList keeps the domestic products with a positive clamped
// recommendation, pricing each one at its unit cost.
func DomesticPurchaseList(rows []domain.DomesticProduct, calc *Calculator) []domain.DomesticPurchase {
	out := make([]domain.DomesticPurchase, 0, len(rows))
	for _, p := range rows {
		rec := calc.Clamped(p.QuantitySold, p.StockOnHand)
		if rec <= 0 {
			continue
		}
		out = append(out, domain.DomesticPurchase{
			DomesticProduct: p,
			Recommendation:  rec,
			PredictedCost:   p.UnitCost.Mul(decimal.NewFromInt(int64(rec))),
			Text:            FormatAction(rec, p.UnitLabel, p.Name),
		})
	}
	return out
}

// ForeignPurchaseList keeps the Informes rows that recommend a purchase.
func ForeignPurchaseList(rows []domain.ForeignCatalogRow) []domain.ForeignCatalogRow {
	out := make([]domain.ForeignCatalogRow, 0, len(rows))
	for _, r := range rows {
		if r.Recommendation > 0 {
			out = append(out, r)
		}
	}
	return out
}

func SummarizeDecisions(rows []domain.ReconciledDecision) domain.PurchaseSummary {
	s := domain.PurchaseSummary{Products: len(rows), TotalPredictedCost: decimal.Zero}
	for _, r := range rows {
		s.TotalPredictedCost = s.TotalPredictedCost.Add(r.PredictedCost)
	}
	return s
}

func SummarizeDomestic(rows []domain.DomesticPurchase) domain.PurchaseSummary {
	s := domain.PurchaseSummary{Products: len(rows), TotalPredictedCost: decimal.Zero}
	for _, r := range rows {
		s.TotalPredictedCost = s.TotalPredictedCost.Add(r.PredictedCost)
	}
	return s
}

// SummarizeForeign counts rows only; the Informes file carries no cost.
func SummarizeForeign(rows []domain.ForeignCatalogRow) domain.PurchaseSummary {
	return domain.PurchaseSummary{Products: len(rows), TotalPredictedCost: decimal.Zero}
}
