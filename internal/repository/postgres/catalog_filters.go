package postgres

import (
	"fmt"
	"strings"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// buildProductFilterClause appends the brand, product and category filters
// shared by every domestic query. productAlias and groupAlias prefix the columns.
// Every match ignores case, like domain.PurchaseFilter.Key.
func buildProductFilterClause(filter domain.PurchaseFilter, productAlias, groupAlias string, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	p := normalizeAlias(productAlias)
	g := normalizeAlias(groupAlias)
	idx := startIndex

	if filter.HasBrand() {
		clauses = append(clauses, fmt.Sprintf("UPPER(%sbrand) = UPPER($%d)", p, idx))
		args = append(args, strings.TrimSpace(filter.Brand))
		idx++
	}

	if product := strings.TrimSpace(filter.Product); product != "" {
		clauses = append(clauses, fmt.Sprintf("%sname ILIKE $%d", p, idx))
		args = append(args, "%"+product+"%")
		idx++
	}

	if filter.HasCategory() {
		clauses = append(clauses, fmt.Sprintf("UPPER(%sname) = UPPER($%d)", g, idx))
		args = append(args, strings.TrimSpace(filter.Category))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " AND " + strings.Join(clauses, " AND "), args
}

func normalizeAlias(alias string) string {
	if alias == "" {
		return ""
	}
	if !strings.HasSuffix(alias, ".") {
		return alias + "."
	}
	return alias
}

// likeContains turns a LIKE pattern into one matching anywhere in the value.
func likeContains(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if !strings.HasPrefix(pattern, "%") {
		pattern = "%" + pattern
	}
	if !strings.HasSuffix(pattern, "%") {
		pattern += "%"
	}
	return pattern
}
