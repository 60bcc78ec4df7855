package export

import (
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

func DomesticPurchases(rows []domain.DomesticPurchase) Table {
	t := Table{Headers: []string{
		"Marca", "Categoria", "Código BR", "Cod PY", "Produto", "Custo Unitário",
		"Último Fornecedor", "Última Entrada", "Produtos Vendidos", "Unidade",
		"Qtd de Vendas", "Estoque BR", "Recomendação BR", "Custo Previsto", "Texto",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			r.Brand, r.Category, r.DomesticCode, r.ForeignCode, r.Name, r.UnitCost.InexactFloat64(),
			r.LastSupplier, formatDate(r.LastEntry), r.QuantitySold, r.UnitLabel,
			r.SalesCount, r.StockOnHand, r.Recommendation, r.PredictedCost.InexactFloat64(), r.Text,
		})
	}
	return t
}

func ForeignCatalog(rows []domain.ForeignCatalogRow) Table {
	t := Table{Headers: []string{"Cod PY", "Produto", "Marca", "Vendas PY", "Estoque PY", "Recomendação PY", "Texto"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			r.ForeignCode, r.ProductName, r.Brand, r.SalesQty, r.StockQty, r.Recommendation, r.Text,
		})
	}
	return t
}

func Decisions(rows []domain.ReconciledDecision) Table {
	t := Table{Headers: []string{
		"Marca", "Produto", "Categoria", "Código BR", "Cod PY", "Custo", "Unidade",
		"Estoque BR", "Vendas BR", "Recomendação BR",
		"Estoque PY", "Vendas PY", "Recomendação PY",
		"Tem p/ PY?", "Quanto comprar?", "Custo Previsto", "Comprar", "Separar p/ PY",
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			r.Brand, r.ProductName, r.Category, r.DomesticCode, r.ForeignCode, r.UnitCost.InexactFloat64(), r.UnitLabel,
			r.DomesticStock, r.DomesticSales, r.DomesticRecommendation,
			r.ForeignStock, r.ForeignSales, r.ForeignRecommendation,
			domain.CoverageLabel(r.CanCoverFromDomesticExcess), r.FinalDomesticPurchaseQty,
			r.PredictedCost.InexactFloat64(), r.PurchaseText, r.TransferText,
		})
	}
	return t
}

func InfoserveMovements(rows []domain.InfoserveRow) Table {
	t := Table{Headers: []string{"Data", "Nota", "Cód. Cliente", "Cliente", "Cód. Produto", "Produto", "Quantidade"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			formatDate(r.Date), r.Invoice, r.CustomerCode, r.CustomerName, r.ProductCode, r.ProductName, r.Quantity,
		})
	}
	return t
}

// Freight lists the charges and closes with the total and the adjusted total.
func Freight(report domain.FreightReport) Table {
	t := Table{Headers: []string{"Data e Hora", "Venda", "Vendedor", "Valor Produtos", "Transportadora", "Valor Frete", "Cliente"}}
	for _, r := range report.Rows {
		t.Rows = append(t.Rows, []interface{}{
			r.InvoicedAt.Format("02/01/2006 15:04"), r.SaleID, r.Seller, r.ProductsValue.InexactFloat64(),
			r.Carrier, r.FreightValue.InexactFloat64(), r.Customer,
		})
	}
	t.Rows = append(t.Rows,
		[]interface{}{"Valor Total de Fretes", "", "", "", "", report.FreightTotal.InexactFloat64(), ""},
		[]interface{}{"Ajuste", "", "", "", "", report.Adjustment.InexactFloat64(), ""},
		[]interface{}{"Total c/ Ajuste", "", "", "", "", report.TotalWithAdjustment.InexactFloat64(), ""},
	)
	return t
}

func ControlledSales(rows []domain.ControlledSale) Table {
	t := Table{Headers: []string{
		"Data", "Vendedor", "Nome do Medicamento", "Quantidade Vendida", "Lote",
		"Venda", "NFe", "Cliente", "Endereço", "CNPJ", "CPF", "DOC",
	}}
	for _, r := range rows {
		at := r.InvoicedAt
		t.Rows = append(t.Rows, []interface{}{
			formatDate(&at), r.Seller, r.Medication, r.QuantityText, r.Batch,
			r.SaleID, r.Invoice, r.Customer, r.Address, r.CNPJ, r.CPF, r.Document,
		})
	}
	return t
}
