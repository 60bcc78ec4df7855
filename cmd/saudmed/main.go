package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "saudmed",
		Usage: "Operator tools for the SaudMed purchase analytics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "infoserve",
				Usage: "Foreign point-of-sale exports",
				Subcommands: []*cli.Command{
					{
						Name:  "report",
						Usage: "Print or export the enriched movement ledger",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD)"},
							&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD)"},
							&cli.StringSliceFlag{Name: "customer", Usage: "Customer name, repeatable"},
							&cli.StringSliceFlag{Name: "product", Usage: "Product name, repeatable"},
							newOutFlag(),
						},
						Action: InfoserveReport,
					},
					{
						Name:   "sync",
						Usage:  "Download the exports from the configured Google Drive folder",
						Action: InfoserveSync,
					},
				},
			},
			{
				Name:  "informes",
				Usage: "Foreign sales and stock spreadsheet",
				Subcommands: []*cli.Command{
					{
						Name:      "check",
						Usage:     "Normalize an Informes workbook and report what was read",
						ArgsUsage: "<file.xlsx>",
						Action:    InformesCheck,
					},
				},
			},
			{
				Name:  "purchases",
				Usage: "Purchase recommendations",
				Subcommands: []*cli.Command{
					{
						Name:  "combined",
						Usage: "Reconcile the domestic catalog against an Informes workbook",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "informes", Usage: "Informes workbook", Required: true},
							&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD), default 30 days ago"},
							&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD), default today"},
							&cli.BoolFlag{Name: "exclude-key-account", Usage: "Leave the key account's sales out"},
							newOutFlag(),
						},
						Before: initDB,
						After:  closeDB,
						Action: PurchasesCombined,
					},
				},
			},
			{
				Name:  "reports",
				Usage: "Sale-level ERP reports",
				Subcommands: []*cli.Command{
					{
						Name:  "freight",
						Usage: "Outsourced delivery fees, total and total with the adjustment",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD), default 30 days ago"},
							&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD), default today"},
							newOutFlag(),
						},
						Before: initDB,
						After:  closeDB,
						Action: ReportsFreight,
					},
					{
						Name:  "controlled",
						Usage: "Controlled-substance sales register",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD), default 30 days ago"},
							&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD), default today"},
							&cli.StringFlag{Name: "brand", Usage: "Brand"},
							&cli.StringFlag{Name: "product", Usage: "Product name substring"},
							newOutFlag(),
						},
						Before: initDB,
						After:  closeDB,
						Action: ReportsControlled,
					},
				},
			},
			{
				Name:  "adjustment",
				Usage: "Manual adjustment added to the freight total",
				Subcommands: []*cli.Command{
					{
						Name:   "get",
						Usage:  "Print the current value",
						Action: AdjustmentGet,
					},
					{
						Name:      "set",
						Usage:     "Store a new value",
						ArgsUsage: "<value>",
						Action:    AdjustmentSet,
					},
				},
			},
		},
	}

	// config.Load also reads .env
	_ = config.Load()

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func newOutFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Write an .xlsx file into this directory instead of printing",
	}
}
