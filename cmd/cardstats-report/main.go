// cardstats-report runs one analytics operation against the configured
// ledger backend, writes its JSON artifact and prints the result to
// stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"cardstats/internal/amqp"
	"cardstats/internal/cli"
	applog "cardstats/internal/log"
	"cardstats/internal/report"
	"cardstats/internal/services"
	"cardstats/internal/table"
)

func main() {
	op := flag.String("op", "", "operation: category | summary | weekday | workday | cashback")
	category := flag.String("category", "", "category name (category and summary operations)")
	date := flag.String("date", "", "as-of date (DD.MM.YYYY or YYYY-MM-DD, optional time)")
	year := flag.Int("year", 0, "target year (cashback)")
	month := flag.Int("month", 0, "target month 1-12 (cashback)")
	out := flag.String("out", "", "artifact file name (optional, .json appended if missing)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	ctx := context.Background()
	backend := cli.OpenLedger(ctx, logger.WithComponent(applog.ComponentLedger).Logger, cfg)
	defer func() {
		if backend.Cleanup != nil {
			_ = backend.Cleanup()
		}
	}()

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without report events", "error", err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	reportLog := logger.WithComponent(applog.ComponentReport).Logger
	saver := report.NewSaver(cfg.ReportsDir, reportLog, events)
	gen := report.NewGenerator(reportLog)

	ledgerTable, err := backend.Reader.Load(ctx)
	if err != nil {
		logger.Error("Failed to load transactions", "error", err)
		os.Exit(1)
	}

	var result any
	switch *op {
	case "category":
		rows := report.PersistAs(ctx, saver, "spending_by_category", *out, func() *table.Table {
			return gen.ByCategory(ledgerTable, *category, *date)
		})
		result = rows.Records()
	case "summary":
		svc := services.NewReportService(backend.Reader, gen, saver, reportLog)
		result, err = svc.CategorySummary(ctx, *category, *date)
	case "weekday":
		result = report.PersistAs(ctx, saver, "spending_by_weekday", *out, func() []report.WeekdaySpend {
			return gen.ByWeekday(ledgerTable, *date)
		})
	case "workday":
		result = report.PersistAs(ctx, saver, "spending_by_workday", *out, func() report.WorkdayReport {
			return gen.ByWorkday(ledgerTable, *date)
		})
	case "cashback":
		var analysis services.CashbackReport
		analysis, err = services.AnalyzeCashback(ledgerTable, *year, *month, reportLog)
		if err == nil {
			result = report.PersistAs(ctx, saver, "cashback_categories", *out, func() services.CashbackReport {
				return analysis
			})
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown operation %q\n", *op)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Report operation failed", "operation", *op, "error", err)
		os.Exit(1)
	}

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("Failed to render result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(body))
}
