package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"15,50", "15.5"},
		{"1.234,56", "1234.56"},
		{"12.50", "12.5"},
		{"R$ 8,00", "8"},
		{"  ", "0"},
		{"a combinar", "0"},
		{"-3,00", "-3"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAmount(tc.raw).String())
		})
	}
}

func TestFreightReportAddsAdjustment(t *testing.T) {
	rows := PrepareFreight([]domain.FreightCharge{
		{SaleID: 1, RawFreight: "15,50", Seller: " ANA "},
		{SaleID: 2, RawFreight: "0"},
		{SaleID: 3, RawFreight: "12.00"},
		{SaleID: 4, RawFreight: "sem valor"},
		{SaleID: 5, RawFreight: "-2,00"},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].SaleID)
	assert.Equal(t, "ANA", rows[0].Seller)
	assert.Equal(t, int64(3), rows[1].SaleID)

	report := SummarizeFreight(rows, decimal.RequireFromString("-7.5"))
	assert.Equal(t, 2, report.Sales)
	assert.Equal(t, "27.5", report.FreightTotal.String())
	assert.Equal(t, "-7.5", report.Adjustment.String())
	assert.Equal(t, "20", report.TotalWithAdjustment.String())
}

func TestSummarizeFreightWithoutAdjustment(t *testing.T) {
	report := SummarizeFreight(nil, decimal.Zero)
	assert.Zero(t, report.Sales)
	assert.True(t, report.TotalWithAdjustment.IsZero())
}

func TestMedicationName(t *testing.T) {
	assert.Equal(t, "RIVOTRIL 2MG", MedicationName("CRM - UNID RIVOTRIL 2MG"))
	assert.Equal(t, "RIVOTRIL 2MG", MedicationName(" CRM - RIVOTRIL 2MG"))
	assert.Equal(t, "Rivotril", MedicationName("crm - Rivotril"))
	assert.Equal(t, "DIPIRONA", MedicationName("  DIPIRONA "))
	assert.Equal(t, "", MedicationName(""))
}

func TestPrepareControlled(t *testing.T) {
	rows := PrepareControlled([]domain.ControlledSale{
		{RawName: "CRM - UNID ZOLPIDEM 10MG", Quantity: 2, UnitLabel: " CX ", Invoice: "1234.0"},
		{RawName: "CLONAZEPAM", Quantity: 1},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "ZOLPIDEM 10MG", rows[0].Medication)
	assert.Equal(t, "2 CX", rows[0].QuantityText)
	assert.Equal(t, "1234", rows[0].Invoice)
	assert.Equal(t, "1", rows[1].QuantityText)
}
