package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
)

type reportRepository struct {
	db              *DB
	criteria        SalesCriteria
	freightField    int
	controlledGroup int
}

var _ repository.ReportRepository = (*reportRepository)(nil)

// NewReportRepository reads the freight and controlled-substance reports.
// freightField is the custom field holding the delivery fee; controlledGroup
// the product group of controlled medication.
func NewReportRepository(db *DB, criteria SalesCriteria, freightField, controlledGroup int) *reportRepository {
	return &reportRepository{db: db, criteria: criteria, freightField: freightField, controlledGroup: controlledGroup}
}

func (r *reportRepository) freightQuery(filter domain.PurchaseFilter) (string, []interface{}) {
	query := `
		SELECT
			v.invoiced_at AS invoiced_at,
			v.id AS sale_id,
			COALESCE(v.seller_name, '') AS seller,
			COALESCE(v.products_total, 0) AS products_value,
			COALESCE(v.carrier_name, '') AS carrier,
			COALESCE(cf.value, '') AS raw_freight,
			COALESCE(v.customer_name, '') AS customer
		FROM sale_custom_values cf
		JOIN sales v ON v.id = cf.sale_id
		WHERE v.cancelled = FALSE
			AND v.invoiced = TRUE
			AND cf.field_code = $1
			AND v.operation_nature = $2
			AND v.status = $3
			AND v.invoiced_at >= $4
			AND v.invoiced_at < $5
		ORDER BY v.invoiced_at DESC`
	args := []interface{}{r.freightField, r.criteria.Nature, r.criteria.Status, filter.Start, filter.End}
	return query, args
}

func (r *reportRepository) FreightCharges(ctx context.Context, filter domain.PurchaseFilter) ([]domain.FreightCharge, error) {
	query, args := r.freightQuery(filter)
	var rows []domain.FreightCharge
	if err := r.db.SelectGuarded(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get freight charges: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) controlledQuery(filter domain.PurchaseFilter) (string, []interface{}) {
	query := `
		SELECT
			v.invoiced_at AS invoiced_at,
			SPLIT_PART(COALESCE(v.seller_name, ''), ' ', 1) AS seller,
			COALESCE(p.name, '') AS raw_name,
			COALESCE(i.quantity, 0)::int AS quantity,
			COALESCE(p.unit_label, '') AS unit_label,
			COALESCE(i.batch_number, '') AS batch,
			v.id AS sale_id,
			COALESCE(n.number::text, '') AS invoice,
			COALESCE(v.customer_name, '') AS customer,
			UPPER(
				COALESCE(c.street, '') ||
				COALESCE(', ' || c.number, '') ||
				COALESCE('. ' || c.district, '') ||
				COALESCE('. ' || c.city, '') ||
				COALESCE('. ' || c.state, '')
			) AS address,
			COALESCE(c.cnpj, '') AS cnpj,
			COALESCE(c.cpf, '') AS cpf,
			COALESCE(v.document, '') AS document
		FROM sales v
		JOIN sale_items i ON i.sale_id = v.id
		JOIN products p ON p.code = i.product_code
		LEFT JOIN invoices n ON n.sale_id = v.id
		LEFT JOIN customers c ON c.id = v.customer_id
		WHERE v.cancelled = FALSE
			AND v.invoiced = TRUE
			AND i.cfop = ANY($1)
			AND i.operation_nature = $2
			AND v.status = $3
			AND i.mode = $4
			AND v.invoiced_at >= $5
			AND v.invoiced_at < $6
			AND p.group_id = $7`
	args := []interface{}{
		pq.Array(r.criteria.CFOPs),
		r.criteria.Nature,
		r.criteria.Status,
		r.criteria.Mode,
		filter.Start,
		filter.End,
		r.controlledGroup,
	}

	// the group already selects the category
	filter.Category = ""
	where, filterArgs := buildProductFilterClause(filter, "p", "g", len(args)+1)
	query += where
	args = append(args, filterArgs...)
	query += `
		ORDER BY v.invoiced_at, p.name`
	return query, args
}

func (r *reportRepository) ControlledSales(ctx context.Context, filter domain.PurchaseFilter) ([]domain.ControlledSale, error) {
	query, args := r.controlledQuery(filter)
	var rows []domain.ControlledSale
	if err := r.db.SelectGuarded(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get controlled sales: %w", err)
	}
	return rows, nil
}
