package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
)

// SalesCriteria selects which sale lines count as a completed in-state sale.
type SalesCriteria struct {
	CFOPs      []int64
	Nature     string
	Status     string
	Mode       string
	BranchCode int
}

func DefaultSalesCriteria(branchCode int) SalesCriteria {
	return SalesCriteria{
		CFOPs:      []int64{5102, 5405, 6102, 6108, 6403},
		Nature:     "Venda",
		Status:     "Efetivada",
		Mode:       "O",
		BranchCode: branchCode,
	}
}

type catalogRepository struct {
	db              *DB
	criteria        SalesCriteria
	keyAccountMatch string
}

var _ repository.CatalogRepository = (*catalogRepository)(nil)

// NewCatalogRepository reads the ERP tables. keyAccountPattern is a LIKE
// pattern on the customer trade name used by the key-account exclusion.
func NewCatalogRepository(db *DB, criteria SalesCriteria, keyAccountPattern string) *catalogRepository {
	return &catalogRepository{db: db, criteria: criteria, keyAccountMatch: likeContains(keyAccountPattern)}
}

const productColumns = `
			p.code AS domestic_code,
			COALESCE(TRIM(p.foreign_code), '') AS foreign_code,
			p.name AS product_name,
			COALESCE(p.brand, '') AS brand,
			COALESCE(g.name, '') AS category,
			COALESCE(p.cost, 0) AS raw_cost,
			COALESCE(TRIM(p.unit_label), '') AS unit_label,
			COALESCE(p.last_supplier, '') AS last_supplier,
			CAST(p.last_entry_at AS DATE) AS last_entry`

// saleLineClause filters sale lines of items i / sales v in the window; it
// consumes seven placeholders starting at idx.
func (r *catalogRepository) saleLineClause(filter domain.PurchaseFilter, idx int) (string, []interface{}) {
	clause := fmt.Sprintf(`
			AND v.cancelled = FALSE
			AND s.branch_code = $%d
			AND i.cfop = ANY($%d)
			AND i.operation_nature = $%d
			AND v.status = $%d
			AND i.mode = $%d
			AND i.sold_at >= $%d
			AND i.sold_at < $%d`, idx, idx+1, idx+2, idx+3, idx+4, idx+5, idx+6)
	args := []interface{}{
		r.criteria.BranchCode,
		pq.Array(r.criteria.CFOPs),
		r.criteria.Nature,
		r.criteria.Status,
		r.criteria.Mode,
		filter.Start,
		filter.End,
	}
	return clause, args
}

func (r *catalogRepository) PurchaseCandidates(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error) {
	query := `
		SELECT` + productColumns + `,
			COALESCE(SUM(i.quantity), 0)::int AS quantity_sold,
			COUNT(DISTINCT v.id) AS sales_count,
			COALESCE(s.balance, 0)::int AS stock_on_hand
		FROM sale_items i
		JOIN sales v ON v.id = i.sale_id
		JOIN products p ON p.code = i.product_code
		JOIN product_groups g ON g.id = p.group_id
		JOIN product_stock s ON s.product_id = p.id
		WHERE p.active = TRUE`

	lines, args := r.saleLineClause(filter, 1)
	query += lines
	where, filterArgs := buildProductFilterClause(filter, "p", "g", len(args)+1)
	query += where
	args = append(args, filterArgs...)

	query += `
		GROUP BY p.code, p.foreign_code, p.name, p.brand, g.name, p.cost,
			p.unit_label, p.last_supplier, p.last_entry_at, s.balance
		ORDER BY brand, product_name`

	var rows []domain.DomesticProduct
	if err := r.db.SelectGuarded(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get purchase candidates: %w", err)
	}
	return rows, nil
}

func (r *catalogRepository) Products(ctx context.Context, filter domain.PurchaseFilter) ([]domain.DomesticProduct, error) {
	query := `
		SELECT` + productColumns + `,
			COALESCE(s.balance, 0)::int AS stock_on_hand
		FROM products p
		JOIN product_groups g ON g.id = p.group_id
		JOIN product_stock s ON s.product_id = p.id
		WHERE p.active = TRUE AND s.branch_code = $1`

	args := []interface{}{r.criteria.BranchCode}
	where, filterArgs := buildProductFilterClause(filter, "p", "g", 2)
	query += where
	args = append(args, filterArgs...)
	query += `
		ORDER BY brand, product_name`

	var rows []domain.DomesticProduct
	if err := r.db.SelectGuarded(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	return rows, nil
}

func (r *catalogRepository) SalesByProduct(ctx context.Context, filter domain.PurchaseFilter) ([]domain.SalesAggregate, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT
			i.product_code AS product_key,
			COALESCE(SUM(i.quantity), 0)::int AS quantity_sold
		FROM sale_items i
		JOIN sales v ON v.id = i.sale_id
		JOIN products p ON p.code = i.product_code
		JOIN product_groups g ON g.id = p.group_id
		JOIN product_stock s ON s.product_id = p.id`)
	if filter.ExcludeKeyAccount {
		b.WriteString(`
		LEFT JOIN customers c ON c.id = v.customer_id`)
	}
	b.WriteString(`
		WHERE p.active = TRUE`)

	lines, args := r.saleLineClause(filter, 1)
	b.WriteString(lines)
	if filter.ExcludeKeyAccount {
		fmt.Fprintf(&b, `
			AND (c.trade_name NOT LIKE $%d OR c.trade_name IS NULL)`, len(args)+1)
		args = append(args, r.keyAccountMatch)
	}
	where, filterArgs := buildProductFilterClause(filter, "p", "g", len(args)+1)
	b.WriteString(where)
	args = append(args, filterArgs...)
	b.WriteString(`
		GROUP BY i.product_code`)

	var rows []domain.SalesAggregate
	if err := r.db.SelectGuarded(ctx, &rows, b.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to get sales by product: %w", err)
	}
	return rows, nil
}

func (r *catalogRepository) Brands(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT brand
		FROM products
		WHERE active = TRUE AND brand IS NOT NULL AND brand <> ''
		ORDER BY brand
	`
	var brands []string
	if err := r.db.SelectGuarded(ctx, &brands, query); err != nil {
		return nil, fmt.Errorf("failed to get brands: %w", err)
	}
	return brands, nil
}

func (r *catalogRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT name
		FROM product_groups
		ORDER BY name
	`
	var categories []string
	if err := r.db.SelectGuarded(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}
