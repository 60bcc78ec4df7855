// Package informes normalizes the Informes spreadsheet exported by the foreign
// store into catalog rows with sales, stock and a reorder recommendation.
package informes

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/purchase"
)

// Positions of the canonical fields inside InformesConfig.FinalNames.
const (
	posCode = iota
	posName
	posBrand
	posSales
	posStock
	finalFields
)

type Normalizer struct {
	cfg  config.InformesConfig
	calc *purchase.Calculator
}

func NewNormalizer(cfg config.InformesConfig, factor float64) *Normalizer {
	return &Normalizer{cfg: cfg, calc: purchase.NewCalculator(factor)}
}

// Columns are the labels of the normalized catalog.
func (n *Normalizer) Columns() []string {
	return append([]string(nil), n.cfg.FinalNames...)
}

// Catalog normalizes r and labels the result with the configured final column names.
func (n *Normalizer) Catalog(name string, r io.Reader) (domain.ForeignCatalog, error) {
	rows, err := n.Normalize(r)
	if err != nil {
		return domain.ForeignCatalog{}, err
	}
	return domain.ForeignCatalog{Name: name, Columns: n.Columns(), Rows: rows}, nil
}

// Normalize reads the first sheet of an Informes workbook.
//
// The first SkipRows rows are dropped, then the configured column positions,
// and the survivors are named positionally. A surviving column count that
// differs from the contract is domain.ErrMalformedSource; a sheet with nothing
// after the skipped rows, or with no usable code, is domain.ErrNoData.
func (n *Normalizer) Normalize(r io.Reader) ([]domain.ForeignCatalogRow, error) {
	if len(n.cfg.FinalNames) != finalFields {
		return nil, errors.Wrapf(domain.ErrMalformedSource,
			"informes contract has %d final columns, expected %d", len(n.cfg.FinalNames), finalFields)
	}

	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrMalformedSource, "open workbook: %v", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(domain.ErrNoData, "workbook has no sheets")
	}
	raw, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(domain.ErrMalformedSource, "read sheet %s: %v", sheets[0], err)
	}

	if len(raw) <= n.cfg.SkipRows {
		return nil, errors.Wrap(domain.ErrNoData, "informes is empty after the title rows")
	}
	raw = raw[n.cfg.SkipRows:]

	width := 0
	for _, row := range raw {
		width = max(width, len(row))
	}
	if width == 0 {
		return nil, errors.Wrap(domain.ErrNoData, "informes is empty after the title rows")
	}

	kept := n.keptPositions(width)
	if len(kept) != len(n.cfg.TempNames) {
		return nil, errors.Wrapf(domain.ErrMalformedSource,
			"structural mismatch: %d columns left after dropping %v, expected %d (%v)",
			len(kept), n.cfg.DropIndices, len(n.cfg.TempNames), n.cfg.TempNames)
	}

	final := make([]int, 0, len(kept))
	for i, pos := range kept {
		if n.cfg.TempNames[i] == n.cfg.DropName {
			continue
		}
		final = append(final, pos)
	}
	if len(final) != len(n.cfg.FinalNames) {
		return nil, errors.Wrapf(domain.ErrMalformedSource,
			"structural mismatch: %d columns left after dropping %q, expected %d (%v)",
			len(final), n.cfg.DropName, len(n.cfg.FinalNames), n.cfg.FinalNames)
	}

	out := make([]domain.ForeignCatalogRow, 0, len(raw))
	skipped := 0
	for _, row := range raw {
		cell := func(field int) string {
			pos := final[field]
			if pos >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[pos])
		}

		code := normalizeCode(cell(posCode))
		if code == "" {
			skipped++
			continue
		}
		rec := domain.ForeignCatalogRow{
			ForeignCode: code,
			ProductName: nullToEmpty(cell(posName)),
			Brand:       nullToEmpty(cell(posBrand)),
			SalesQty:    quantity(cell(posSales)),
			StockQty:    quantity(cell(posStock)),
		}
		rec.Recommendation = n.calc.Clamped(rec.SalesQty, rec.StockQty)
		rec.Text = purchase.FormatUnitlessAction(rec.Recommendation, rec.ProductName)
		out = append(out, rec)
	}
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("informes rows without a product code")
	}
	if len(out) == 0 {
		return nil, errors.Wrap(domain.ErrNoData, "informes has no row with a product code")
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

// keptPositions lists the column positions below width that are not dropped.
// Drop indices beyond width are ignored.
func (n *Normalizer) keptPositions(width int) []int {
	drop := make(map[int]bool, len(n.cfg.DropIndices))
	for _, i := range n.cfg.DropIndices {
		if i < width {
			drop[i] = true
		}
	}
	kept := make([]int, 0, width)
	for i := 0; i < width; i++ {
		if !drop[i] {
			kept = append(kept, i)
		}
	}
	return kept
}

func isNull(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

func nullToEmpty(s string) string {
	if isNull(s) {
		return ""
	}
	return s
}

// normalizeCode trims the code and renders integral numbers without a fraction,
// so a numeric cell "1234.0" joins against the text code "1234".
func normalizeCode(s string) string {
	if isNull(s) {
		return ""
	}
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) && strings.ContainsAny(s, ".eE") {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// quantity truncates a numeric cell to a non-negative integer; anything else is 0.
func quantity(s string) int {
	if isNull(s) {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(f)
}
