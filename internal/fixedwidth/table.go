package fixedwidth

import (
	"strings"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
)

// Table is a matrix of raw trimmed strings labelled by the header found in the file.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Index returns the position of the column labelled exactly name, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FindColumn returns the first label containing keyword, case-insensitively.
func (t *Table) FindColumn(keyword string) (string, bool) {
	if t == nil {
		return "", false
	}
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return "", false
	}
	for _, c := range t.Columns {
		if strings.Contains(strings.ToLower(strings.TrimSpace(c)), needle) {
			return c, true
		}
	}
	return "", false
}

// Resolve locates the column described by rule. The declared header wins; the
// keyword search is only consulted when it is absent, and fallback reports that.
func (t *Table) Resolve(rule config.ColumnRule) (column string, fallback bool, ok bool) {
	if t == nil {
		return "", false, false
	}
	if h := strings.TrimSpace(rule.Header); h != "" {
		for _, c := range t.Columns {
			if strings.EqualFold(strings.TrimSpace(c), h) {
				return c, false, true
			}
		}
	}
	if c, found := t.FindColumn(rule.Keyword); found {
		return c, true, true
	}
	return "", false, false
}

// Value returns the field of row under column, or "" when either is out of range.
func (t *Table) Value(row []string, column string) string {
	i := t.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
