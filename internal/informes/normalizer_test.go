package informes

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// informesRow lays out the fields the way the export does: 14 columns where
// positions 1, 4, 10, 11, 12 and 13 carry code, name, brand, sales, stock and price.
func informesRow(code interface{}, name, brand string, sales, stock interface{}) []interface{} {
	row := make([]interface{}, 14)
	for i := range row {
		row[i] = fmt.Sprintf("x%d", i)
	}
	row[1], row[4], row[10], row[11], row[12], row[13] = code, name, brand, sales, stock, 9.99
	return row
}

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"INFORMES DE VENTAS"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Periodo: 01/2024"}))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestNormalize(t *testing.T) {
	buf := workbook(t,
		informesRow("200", "TINTE", "BETA", 10, 3),
		informesRow("100", " SHAMPOO ", "ALFA", 4.7, -2),
		informesRow("  ", "SEM CODIGO", "ALFA", 5, 0),
		informesRow("300", "GEL", "ALFA", "abc", 50),
		informesRow("nan", "NAN", "ALFA", 5, 0),
	)

	rows, err := NewNormalizer(config.DefaultInformesConfig(), 1.1).Normalize(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.ForeignCatalogRow{
		ForeignCode: "300", ProductName: "GEL", Brand: "ALFA",
		SalesQty: 0, StockQty: 50, Recommendation: 0, Text: "",
	}, rows[0])
	assert.Equal(t, domain.ForeignCatalogRow{
		ForeignCode: "100", ProductName: "SHAMPOO", Brand: "ALFA",
		SalesQty: 4, StockQty: 0, Recommendation: 5, Text: "5 - SHAMPOO",
	}, rows[1])
	assert.Equal(t, "200", rows[2].ForeignCode)
	assert.Equal(t, 8, rows[2].Recommendation)
}

func TestNormalizeNumericCodeJoinsAsText(t *testing.T) {
	buf := workbook(t, informesRow(1234.0, "GEL", "ALFA", 1, 0))

	rows, err := NewNormalizer(config.DefaultInformesConfig(), 1.1).Normalize(buf)
	require.NoError(t, err)
	assert.Equal(t, "1234", rows[0].ForeignCode)
}

func TestNormalizeStructuralMismatch(t *testing.T) {
	wide := append(informesRow("1", "GEL", "ALFA", 1, 0), "extra")
	buf := workbook(t, wide)

	rows, err := NewNormalizer(config.DefaultInformesConfig(), 1.1).Normalize(buf)
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.True(t, errors.Is(err, domain.ErrMalformedSource))
	assert.Contains(t, err.Error(), "structural mismatch")
}

func TestNormalizeFinalCountMismatch(t *testing.T) {
	cfg := config.DefaultInformesConfig()
	cfg.FinalNames = append(cfg.FinalNames, "Extra")

	_, err := NewNormalizer(cfg, 1.1).Normalize(workbook(t, informesRow("1", "GEL", "ALFA", 1, 0)))
	assert.True(t, errors.Is(err, domain.ErrMalformedSource))
}

func TestNormalizeEmptyAfterSkip(t *testing.T) {
	_, err := NewNormalizer(config.DefaultInformesConfig(), 1.1).Normalize(workbook(t))
	assert.True(t, errors.Is(err, domain.ErrNoData))
}

func TestNormalizeNoUsableCode(t *testing.T) {
	buf := workbook(t, informesRow("", "GEL", "ALFA", 1, 0))
	_, err := NewNormalizer(config.DefaultInformesConfig(), 1.1).Normalize(buf)
	assert.True(t, errors.Is(err, domain.ErrNoData))
}

func TestNormalizeNotAWorkbook(t *testing.T) {
	_, err := NewNormalizer(config.DefaultInformesConfig(), 1.1).Normalize(strings.NewReader("not a spreadsheet"))
	assert.True(t, errors.Is(err, domain.ErrMalformedSource))
}

func TestCatalogLabelsColumns(t *testing.T) {
	n := NewNormalizer(config.DefaultInformesConfig(), 1.1)
	catalog, err := n.Catalog("informes.xlsx", workbook(t, informesRow("1", "GEL", "ALFA", 1, 0)))
	require.NoError(t, err)
	assert.Equal(t, "informes.xlsx", catalog.Name)
	assert.True(t, catalog.HasColumn("Cod PY"))
	assert.Len(t, catalog.Rows, 1)
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, 3, quantity("3.9"))
	assert.Equal(t, 0, quantity("-1"))
	assert.Equal(t, 0, quantity("NaN"))
	assert.Equal(t, 0, quantity(""))
	assert.Equal(t, 12, quantity("12"))
}
