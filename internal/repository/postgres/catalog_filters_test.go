package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

func TestBuildProductFilterClause(t *testing.T) {
	cases := []struct {
		name   string
		filter domain.PurchaseFilter
		clause string
		args   []interface{}
	}{
		{"empty", domain.PurchaseFilter{}, "", nil},
		{"all option is no filter", domain.PurchaseFilter{Brand: "Todas", Category: "todas"}, "", nil},
		{
			"every filter",
			domain.PurchaseFilter{Brand: " ALFA ", Product: "creme", Category: "CABELO"},
			" AND UPPER(p.brand) = UPPER($3) AND p.name ILIKE $4 AND UPPER(g.name) = UPPER($5)",
			[]interface{}{"ALFA", "%creme%", "CABELO"},
		},
		{
			"brand ignores case",
			domain.PurchaseFilter{Brand: "alfa"},
			" AND UPPER(p.brand) = UPPER($3)",
			[]interface{}{"alfa"},
		},
		{
			"product only",
			domain.PurchaseFilter{Product: "gel"},
			" AND p.name ILIKE $3",
			[]interface{}{"%gel%"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clause, args := buildProductFilterClause(tc.filter, "p", "g.", 3)
			assert.Equal(t, tc.clause, clause)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestFilterKeyAndClauseAgreeOnCase(t *testing.T) {
	lower := domain.PurchaseFilter{Brand: "alfa", Category: "cabelo"}
	upper := domain.PurchaseFilter{Brand: "ALFA", Category: "CABELO"}
	require.Equal(t, lower.Key(), upper.Key())

	lowerClause, _ := buildProductFilterClause(lower, "p", "g", 1)
	upperClause, _ := buildProductFilterClause(upper, "p", "g", 1)
	assert.Equal(t, lowerClause, upperClause)
	assert.Contains(t, lowerClause, "UPPER(p.brand) = UPPER($1)")
}

func TestLikeContains(t *testing.T) {
	assert.Equal(t, "%STANLEY%HAIR%", likeContains("STANLEY%HAIR%"))
	assert.Equal(t, "%X%", likeContains("%X%"))
	assert.Equal(t, "%X%", likeContains("X"))
}

func TestSaleLineClauseConsumesSevenPlaceholders(t *testing.T) {
	repo := NewCatalogRepository(nil, DefaultSalesCriteria(1), "STANLEY%HAIR%")
	clause, args := repo.saleLineClause(domain.PurchaseFilter{}, 1)
	assert.Len(t, args, 7)
	assert.Contains(t, clause, "$7")
	assert.NotContains(t, clause, "$8")
	assert.Equal(t, 1, args[0])
}

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "saudmed", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=saudmed sslmode=disable", dsn)
}
