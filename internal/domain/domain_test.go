package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseFilterKey(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	a := PurchaseFilter{Start: start, End: end, Brand: "alfa ", Product: "gel"}
	b := PurchaseFilter{Start: start, End: end, Brand: "ALFA", Product: " GEL"}
	assert.Equal(t, a.Key(), b.Key())

	all := PurchaseFilter{Start: start, End: end, Brand: AllOption, Category: "todas"}
	none := PurchaseFilter{Start: start, End: end}
	assert.Equal(t, none.Key(), all.Key(), "Todas means no filter")
	assert.False(t, all.HasBrand())
	assert.False(t, all.HasCategory())

	excl := none
	excl.ExcludeKeyAccount = true
	assert.NotEqual(t, none.Key(), excl.Key())
}

func TestCoverageLabel(t *testing.T) {
	assert.Equal(t, "Sim", CoverageLabel(true))
	assert.Equal(t, "Não", CoverageLabel(false))
}

func TestForeignCatalogHasColumn(t *testing.T) {
	c := ForeignCatalog{Columns: []string{"Cod PY", "Produto"}}
	assert.True(t, c.HasColumn("Cod PY"))
	assert.False(t, c.HasColumn("cod py"))
}
