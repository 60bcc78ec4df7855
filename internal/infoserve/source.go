// Package infoserve turns the three Infoserve text exports into the canonical
// movement ledger used by the foreign sales report.
package infoserve

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/fixedwidth"
)

// NotAvailable marks a customer or product name the directories could not supply.
const NotAvailable = "N/D"

const dateLayout = "2/1/2006"

type Source struct {
	cfg config.InfoserveConfig
}

func NewSource(cfg config.InfoserveConfig) *Source {
	return &Source{cfg: cfg}
}

func (s *Source) layout(schema config.FileSchema) fixedwidth.Layout {
	return fixedwidth.Layout{
		Widths:   schema.Widths,
		SkipRows: s.cfg.SkipRows,
		Encoding: s.cfg.Encoding,
	}
}

// Load reads the movement ledger and enriches it with customer and product
// names. The ledger is mandatory: when it is absent or holds no usable row the
// result wraps domain.ErrNoData. The two directories only enrich; when either
// cannot be read its names become NotAvailable.
func (s *Source) Load(ctx context.Context) ([]domain.InfoserveRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	movements := s.cfg.Movements
	table, err := fixedwidth.ReadFile(s.cfg.Path(movements), s.layout(movements))
	if err != nil {
		return nil, errors.WithMessagef(err, "read %s", movements.File)
	}
	if table.Empty() {
		return nil, errors.Wrapf(domain.ErrNoData, "%s has no movements", movements.File)
	}

	cols, err := resolveColumns(table, movements)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	customers := s.directory(s.cfg.Customers)
	products := s.directory(s.cfg.Products)

	rows := make([]domain.InfoserveRow, 0, len(table.Rows))
	dropped := 0
	for _, raw := range table.Rows {
		invoice, ok1 := parseCode(table.Value(raw, cols[config.FieldInvoice]))
		product, ok2 := parseCode(table.Value(raw, cols[config.FieldProductCode]))
		customer, ok3 := parseCode(table.Value(raw, cols[config.FieldCustomerCode]))
		if !ok1 || !ok2 || !ok3 {
			dropped++
			continue
		}

		row := domain.InfoserveRow{
			Date:         parseDate(table.Value(raw, cols[config.FieldDate])),
			Invoice:      invoice,
			CustomerCode: customer,
			CustomerName: lookup(customers, customer),
			ProductCode:  product,
			ProductName:  lookup(products, product),
			Quantity:     parseQuantity(table.Value(raw, cols[config.FieldQuantity])),
		}
		rows = append(rows, row)
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Str("file", movements.File).Msg("movement rows without a valid identifier triple")
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(domain.ErrNoData, "%s has no valid movements", movements.File)
	}

	SortByDateDesc(rows)
	return rows, nil
}

// resolveColumns maps every required field of schema to a label of table.
func resolveColumns(table *fixedwidth.Table, schema config.FileSchema) (map[string]string, error) {
	cols := make(map[string]string, len(schema.Required))
	for _, field := range schema.Required {
		rule := schema.Columns[field]
		col, fallback, ok := table.Resolve(rule)
		if !ok {
			return nil, errors.Wrapf(domain.ErrMalformedSource,
				"%s: column for %s (%q) not found in %v", schema.File, field, rule.Keyword, table.Columns)
		}
		if fallback {
			log.Warn().
				Str("file", schema.File).
				Str("schema", schema.Version).
				Str("field", field).
				Str("column", col).
				Msg("header drifted from schema, matched by keyword")
		}
		cols[field] = col
	}
	return cols, nil
}

// directory loads a code to name table. Duplicate codes keep their first name.
// Any failure is logged and yields nil, which callers treat as "no enrichment".
func (s *Source) directory(schema config.FileSchema) map[int]string {
	logger := log.With().Str("file", schema.File).Logger()

	table, err := fixedwidth.ReadFile(s.cfg.Path(schema), s.layout(schema))
	if err != nil {
		logger.Warn().Err(err).Msg("directory unreadable, names set to N/D")
		return nil
	}
	if table.Empty() {
		logger.Warn().Msg("directory empty or missing, names set to N/D")
		return nil
	}
	cols, err := resolveColumns(table, schema)
	if err != nil {
		logger.Warn().Err(err).Msg("directory columns not found, names set to N/D")
		return nil
	}

	names := make(map[int]string, len(table.Rows))
	for _, raw := range table.Rows {
		code, ok := parseCode(table.Value(raw, cols[config.FieldCode]))
		if !ok {
			continue
		}
		if _, seen := names[code]; seen {
			continue
		}
		names[code] = strings.TrimSpace(table.Value(raw, cols[config.FieldName]))
	}
	return names
}

func lookup(names map[int]string, code int) string {
	if name, ok := names[code]; ok {
		return name
	}
	return NotAvailable
}

// parseCode accepts plain integers and integral decimals such as "12.0".
func parseCode(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// parseQuantity drops the thousands separator; anything unparseable is 0.
func parseQuantity(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseDate(s string) *time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// SortByDateDesc orders rows newest first; rows without a date go last.
func SortByDateDesc(rows []domain.InfoserveRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Date, rows[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
