package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/drive"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/export"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/informes"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/infoserve"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository/postgres"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/session"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/pkg/logger"
)

const dateLayout = "2006-01-02"

func InfoserveReport(c *cli.Context) error {
	cfg := config.Load()
	if err := cfg.Infoserve.Validate(); err != nil {
		return err
	}

	filter := domain.InfoserveFilter{
		Customers: c.StringSlice("customer"),
		Products:  c.StringSlice("product"),
	}
	var err error
	if filter.Start, err = optionalDate(c.String("start")); err != nil {
		return err
	}
	if filter.End, err = optionalDate(c.String("end")); err != nil {
		return err
	}

	svc := service.NewInfoserveService(infoserve.NewSource(cfg.Infoserve), nil, cfg.Infoserve, nil, "")
	rows, err := svc.Report(c.Context, filter)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		return writeTable(out, "infoserve_movimentos", export.InfoserveMovements(rows))
	}
	for _, r := range rows {
		date := "--/--/----"
		if r.Date != nil {
			date = r.Date.Format("02/01/2006")
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\t%s\t%d\n", date, r.Invoice, r.CustomerName, r.ProductName, r.Quantity)
	}
	logger.Log.Info().Int("rows", len(rows)).Msg("infoserve report")
	return nil
}

func InfoserveSync(c *cli.Context) error {
	cfg := config.Load()
	if cfg.Drive.CredentialsFile == "" || cfg.Drive.InfoserveFolder == "" {
		return fmt.Errorf("DRIVE_CREDENTIALS_FILE and DRIVE_INFOSERVE_FOLDER must be set")
	}

	svc, err := drive.NewServiceFromFile(c.Context, cfg.Drive.CredentialsFile)
	if err != nil {
		return err
	}
	folderID, err := svc.ResolveFolder(c.Context, cfg.Drive.InfoserveFolder)
	if err != nil {
		return err
	}

	infoserveService := service.NewInfoserveService(infoserve.NewSource(cfg.Infoserve), nil, cfg.Infoserve, drive.NewSyncer(svc), folderID)
	result, err := infoserveService.Sync(c.Context)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Strs("downloaded", result.Downloaded).
		Strs("missing", result.Missing).
		Str("dir", cfg.Infoserve.Dir).
		Msg("infoserve sync finished")
	return nil
}

func InformesCheck(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("an Informes workbook path is required")
	}
	cfg := config.Load()

	catalog, err := readInformes(cfg, path)
	if err != nil {
		return err
	}

	recommended := 0
	for _, r := range catalog.Rows {
		if r.Recommendation > 0 {
			recommended++
		}
	}
	fmt.Fprintf(c.App.Writer, "%s: %d products, %d to buy, columns %s\n",
		filepath.Base(path), len(catalog.Rows), recommended, strings.Join(catalog.Columns, ", "))
	return nil
}

func PurchasesCombined(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	cfg := config.Load()

	filter, err := purchaseFilter(c.String("start"), c.String("end"), time.Now())
	if err != nil {
		return err
	}
	filter.ExcludeKeyAccount = c.Bool("exclude-key-account")

	data, err := os.ReadFile(c.String("informes"))
	if err != nil {
		return fmt.Errorf("failed to read informes: %w", err)
	}

	repo := postgres.NewCatalogRepository(db, postgres.DefaultSalesCriteria(cfg.Purchase.BranchCode), cfg.Purchase.ExcludedCustomerFilter)
	svc := service.NewPurchaseService(repo, nil, session.NewStore(),
		informes.NewNormalizer(cfg.Informes, cfg.Purchase.ReorderFactor), nil,
		service.PurchaseOptions{
			ReorderFactor:    cfg.Purchase.ReorderFactor,
			ReverseTaxFactor: cfg.Purchase.ReverseTaxFactor,
			KeyColumn:        cfg.Informes.CodeColumn,
		})

	if _, err := svc.UploadInformes(c.Context, session.DefaultID, filepath.Base(c.String("informes")), data); err != nil {
		return err
	}
	rows, summary, err := svc.Combined(c.Context, session.DefaultID, filter)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		base := "compras_geral"
		if filter.ExcludeKeyAccount {
			base = "compras_geral_sem_conta_chave"
		}
		if err := writeTable(out, base, export.Decisions(rows)); err != nil {
			return err
		}
	} else {
		for _, r := range rows {
			if r.FinalDomesticPurchaseQty == 0 && r.TransferText == "" {
				continue
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", r.Brand, r.PurchaseText, r.TransferText)
		}
	}

	logger.Log.Info().
		Int("products", summary.Products).
		Str("total_predicted_cost", summary.TotalPredictedCost.StringFixed(2)).
		Msg("combined purchase list")
	return nil
}

func ReportsFreight(c *cli.Context) error {
	svc, err := reportService(c)
	if err != nil {
		return err
	}
	filter, err := purchaseFilter(c.String("start"), c.String("end"), time.Now())
	if err != nil {
		return err
	}

	report, err := svc.Freight(c.Context, filter)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		return writeTable(out, "relatorio_fretes", export.Freight(report))
	}
	for _, r := range report.Rows {
		fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\t%s\t%s\n",
			r.InvoicedAt.Format("02/01/2006 15:04"), r.SaleID, r.Seller, r.Carrier, r.FreightValue.StringFixed(2))
	}
	fmt.Fprintf(c.App.Writer, "fretes: %s\tajuste: %s\ttotal c/ ajuste: %s\n",
		report.FreightTotal.StringFixed(2), report.Adjustment.StringFixed(2), report.TotalWithAdjustment.StringFixed(2))
	return nil
}

func ReportsControlled(c *cli.Context) error {
	svc, err := reportService(c)
	if err != nil {
		return err
	}
	filter, err := purchaseFilter(c.String("start"), c.String("end"), time.Now())
	if err != nil {
		return err
	}
	filter.Brand = c.String("brand")
	filter.Product = c.String("product")

	rows, err := svc.Controlled(c.Context, filter)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		return writeTable(out, "relatorio_controlados", export.ControlledSales(rows))
	}
	for _, r := range rows {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\t%s\n",
			r.InvoicedAt.Format("02/01/2006"), r.Medication, r.QuantityText, r.Batch, r.Customer)
	}
	logger.Log.Info().Int("sales", len(rows)).Msg("controlled sales")
	return nil
}

func reportService(c *cli.Context) (*service.ReportService, error) {
	db, err := dbFrom(c)
	if err != nil {
		return nil, err
	}
	cfg := config.Load()
	repo := postgres.NewReportRepository(db, postgres.DefaultSalesCriteria(cfg.Purchase.BranchCode),
		cfg.Reports.FreightFieldCode, cfg.Reports.ControlledGroupCode)
	return service.NewReportService(repo, nil, repository.NewFileAdjustmentStore(cfg.App.AdjustmentFile)), nil
}

func AdjustmentGet(c *cli.Context) error {
	cfg := config.Load()
	value, err := service.NewSettingsService(repository.NewFileAdjustmentStore(cfg.App.AdjustmentFile), nil).Adjustment(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, value.String())
	return nil
}

func AdjustmentSet(c *cli.Context) error {
	raw := strings.ReplaceAll(strings.TrimSpace(c.Args().First()), ",", ".")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid adjustment %q: %w", c.Args().First(), err)
	}
	cfg := config.Load()
	return service.NewSettingsService(repository.NewFileAdjustmentStore(cfg.App.AdjustmentFile), nil).SetAdjustment(c.Context, value)
}

func readInformes(cfg *config.Config, path string) (domain.ForeignCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ForeignCatalog{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return informes.NewNormalizer(cfg.Informes, cfg.Purchase.ReorderFactor).Catalog(filepath.Base(path), f)
}

func writeTable(dir, base string, table export.Table) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, export.FileName(base, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteXLSX(f, table); err != nil {
		return err
	}
	logger.Log.Info().Str("file", path).Int("rows", len(table.Rows)).Msg("spreadsheet written")
	return nil
}

func optionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return &t, nil
}

// purchaseFilter mirrors the API defaults: last 30 days, end inclusive.
func purchaseFilter(start, end string, now time.Time) (domain.PurchaseFilter, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	f := domain.PurchaseFilter{Start: today.AddDate(0, 0, -30), End: today.AddDate(0, 0, 1)}

	s, err := optionalDate(start)
	if err != nil {
		return f, err
	}
	if s != nil {
		f.Start = *s
	}
	e, err := optionalDate(end)
	if err != nil {
		return f, err
	}
	if e != nil {
		f.End = e.AddDate(0, 0, 1)
	}
	if !f.Start.Before(f.End) {
		return f, fmt.Errorf("start must not be after end")
	}
	return f, nil
}
