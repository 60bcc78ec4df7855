package purchase

import (
	"math"

	"github.com/shopspring/decimal"
)

// RecommendSigned is the reorder quantity before any clamping:
// ceil(sold × factor − onHand). A negative result is excess stock.
// NaN inputs count as zero.
func RecommendSigned(sold, onHand, factor float64) int {
	raw := rawNeed(sold, onHand, factor)
	return int(raw.Ceil().IntPart())
}

// RecommendClamped is the single-country display quantity: the signed
// recommendation when positive, otherwise 0.
func RecommendClamped(sold, onHand, factor float64) int {
	raw := rawNeed(sold, onHand, factor)
	if !raw.IsPositive() {
		return 0
	}
	return int(raw.Ceil().IntPart())
}

// rawNeed runs in decimal so that 10 × 1.1 is exactly 11.
func rawNeed(sold, onHand, factor float64) decimal.Decimal {
	s := decimal.NewFromFloat(orZero(sold))
	h := decimal.NewFromFloat(orZero(onHand))
	f := decimal.NewFromFloat(orZero(factor))
	return s.Mul(f).Sub(h)
}

func orZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ReverseTaxCost strips the tax multiplier from a cost, rounded to cents.
// A zero factor yields zero.
func ReverseTaxCost(cost decimal.Decimal, factor float64) decimal.Decimal {
	if factor == 0 || math.IsNaN(factor) {
		return decimal.Zero
	}
	return cost.Div(decimal.NewFromFloat(factor)).Round(2)
}

// Calculator binds the reorder factor of one deployment.
type Calculator struct {
	factor float64
}

func NewCalculator(factor float64) *Calculator {
	return &Calculator{factor: factor}
}

func (c *Calculator) Signed(sold, onHand int) int {
	return RecommendSigned(float64(sold), float64(onHand), c.factor)
}

func (c *Calculator) Clamped(sold, onHand int) int {
	return RecommendClamped(float64(sold), float64(onHand), c.factor)
}
