// Package purchase computes reorder recommendations for each market and
// reconciles the domestic and foreign needs into buy and transfer actions.
package purchase

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// Decision is the outcome for one product given both signed recommendations.
type Decision struct {
	CanCover     bool
	Purchase     int
	Transfer     int
	ShowTransfer bool
}

// Decide reconciles a domestic and a foreign signed recommendation.
//
// Domestic excess (negative domesticRec) can cover a foreign shortfall only
// when domestic stock is actually on hand. Purchase and Transfer are never negative.
// When both sides are overstocked nothing is bought and nothing is shown as a transfer.
func Decide(domesticRec, foreignRec, domesticStock int) Decision {
	d := Decision{
		CanCover: foreignRec > 0 && domesticRec < 0 && domesticStock > 0,
	}

	need := foreignRec + domesticRec
	if foreignRec <= 0 && domesticRec > 0 {
		need = domesticRec
	}
	d.Purchase = max(need, 0)

	transfer := foreignRec
	if domesticRec < 0 {
		transfer = min(foreignRec, -domesticRec)
	}
	d.Transfer = max(transfer, 0)

	d.ShowTransfer = foreignRec > 0 && d.CanCover
	return d
}

// Reconciler joins the domestic catalog to the foreign catalog on the
// cross-reference code and decides every product.
type Reconciler struct {
	calc      *Calculator
	keyColumn string
}

func NewReconciler(calc *Calculator, keyColumn string) *Reconciler {
	return &Reconciler{calc: calc, keyColumn: keyColumn}
}

// Reconcile is a full outer join: every domestic row appears once, matched
// when its trimmed foreign code equals a foreign row's trimmed code, and every
// foreign row no domestic row matched is appended with zero domestic counters.
// Duplicate foreign codes keep their first row. Several domestic rows sharing
// one foreign code each receive that row's full need; nothing splits it. The
// result is sorted by brand then product name.
func (r *Reconciler) Reconcile(domestic []domain.DomesticProduct, foreign domain.ForeignCatalog) ([]domain.ReconciledDecision, error) {
	if !foreign.HasColumn(r.keyColumn) {
		return nil, errors.Wrapf(domain.ErrMissingCrossReference,
			"foreign catalog has no %q column (columns: %v)", r.keyColumn, foreign.Columns)
	}

	index := make(map[string]int, len(foreign.Rows))
	var order []string
	for i, row := range foreign.Rows {
		key := strings.TrimSpace(row.ForeignCode)
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = i
		order = append(order, key)
	}

	matched := make(map[string]bool, len(index))
	out := make([]domain.ReconciledDecision, 0, len(domestic)+len(index))
	for _, p := range domestic {
		var f *domain.ForeignCatalogRow
		key := strings.TrimSpace(p.ForeignCode)
		if key != "" {
			if i, ok := index[key]; ok {
				f = &foreign.Rows[i]
				matched[key] = true
			}
		}
		out = append(out, r.decide(p, f))
	}

	for _, key := range order {
		if matched[key] {
			continue
		}
		f := foreign.Rows[index[key]]
		p := domain.DomesticProduct{ProductRecord: domain.ProductRecord{
			ForeignCode: key,
			Name:        f.ProductName,
			Brand:       f.Brand,
		}}
		out = append(out, r.decide(p, &f))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func (r *Reconciler) decide(p domain.DomesticProduct, f *domain.ForeignCatalogRow) domain.ReconciledDecision {
	var foreignSales, foreignStock int
	if f != nil {
		foreignSales, foreignStock = f.SalesQty, f.StockQty
	}

	domesticRec := r.calc.Signed(p.QuantitySold, p.StockOnHand)
	foreignRec := r.calc.Signed(foreignSales, foreignStock)
	d := Decide(domesticRec, foreignRec, p.StockOnHand)

	out := domain.ReconciledDecision{
		DomesticCode: strings.TrimSpace(p.DomesticCode),
		ForeignCode:  strings.TrimSpace(p.ForeignCode),
		ProductName:  p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		UnitLabel:    p.UnitLabel,
		UnitCost:     p.UnitCost,

		DomesticStock:          p.StockOnHand,
		DomesticSales:          p.QuantitySold,
		DomesticRecommendation: domesticRec,
		ForeignStock:           foreignStock,
		ForeignSales:           foreignSales,
		ForeignRecommendation:  foreignRec,

		CanCoverFromDomesticExcess: d.CanCover,
		FinalDomesticPurchaseQty:   d.Purchase,
		FinalTransferQty:           d.Transfer,
		PredictedCost:              p.UnitCost.Mul(decimal.NewFromInt(int64(d.Purchase))),
		PurchaseText:               FormatAction(d.Purchase, p.UnitLabel, p.Name),
	}
	if d.ShowTransfer {
		out.TransferText = FormatAction(d.Transfer, p.UnitLabel, p.Name)
	}
	return out
}
