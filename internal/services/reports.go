package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cardstats/internal/core"
	"cardstats/internal/ledger"
	"cardstats/internal/report"
	"cardstats/internal/table"
)

// ReportService loads the ledger through its backend and runs the
// spending reports, persisting each result as a JSON artifact.
type ReportService struct {
	source ledger.Reader
	gen    *report.Generator
	saver  *report.Saver
	log    *slog.Logger
}

// NewReportService wires a report service. saver may be nil to disable
// artifact persistence (tests).
func NewReportService(source ledger.Reader, gen *report.Generator, saver *report.Saver, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if gen == nil {
		gen = report.NewGenerator(logger)
	}
	return &ReportService{source: source, gen: gen, saver: saver, log: logger}
}

func (s *ReportService) load(ctx context.Context) (*table.Table, error) {
	t, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return t, nil
}

// SpendingByCategory runs the by-category report and persists the matching
// transaction rows.
func (s *ReportService) SpendingByCategory(ctx context.Context, category, asOf string) (*table.Table, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result := report.Persist(ctx, s.saver, "spending_by_category", func() *table.Table {
		return s.gen.ByCategory(t, category, asOf)
	})
	return result, nil
}

// SpendingByWeekday runs the by-weekday report and persists it.
func (s *ReportService) SpendingByWeekday(ctx context.Context, asOf string) ([]report.WeekdaySpend, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result := report.Persist(ctx, s.saver, "spending_by_weekday", func() []report.WeekdaySpend {
		return s.gen.ByWeekday(t, asOf)
	})
	return result, nil
}

// SpendingByWorkday runs the workday/weekend comparison and persists it.
func (s *ReportService) SpendingByWorkday(ctx context.Context, asOf string) (report.WorkdayReport, error) {
	t, err := s.load(ctx)
	if err != nil {
		return report.WorkdayReport{}, err
	}
	result := report.Persist(ctx, s.saver, "spending_by_workday", func() report.WorkdayReport {
		return s.gen.ByWorkday(t, asOf)
	})
	return result, nil
}

// CashbackByCategory loads the ledger and runs the cashback analysis for
// the given month, persisting the ordered mapping.
func (s *ReportService) CashbackByCategory(ctx context.Context, year, month int) (CashbackReport, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result, err := AnalyzeCashback(t, year, month, s.log)
	if err != nil {
		return nil, err
	}
	return report.Persist(ctx, s.saver, "cashback_categories", func() CashbackReport {
		return result
	}), nil
}

// Period describes the window a category summary covers.
type Period struct {
	Months  int    `json:"months"`
	EndDate string `json:"end_date"`
}

// CategorySummary is the JSON companion of the by-category report: the
// aggregate figures plus the matched transactions trimmed to their
// display columns.
type CategorySummary struct {
	Category          string              `json:"category"`
	Period            Period              `json:"period"`
	TotalSpent        float64             `json:"total_spent"`
	AverageSpent      float64             `json:"average_spent"`
	TransactionsCount int                 `json:"transactions_count"`
	Transactions      []map[string]string `json:"transactions"`
}

// summaryColumns are the columns a category summary exposes per row.
var summaryColumns = []string{
	core.ColOperationDate,
	core.ColPaymentDate,
	core.ColPaymentAmount,
	core.ColCategory,
	core.ColDescription,
	core.ColMCC,
}

// CategorySummary builds the summarized by-category report.
func (s *ReportService) CategorySummary(ctx context.Context, category, asOf string) (CategorySummary, error) {
	rows, err := s.SpendingByCategory(ctx, category, asOf)
	if err != nil {
		return CategorySummary{}, err
	}

	end, _ := report.ResolveAsOf(asOf, time.Now)
	summary := CategorySummary{
		Category:     category,
		Period:       Period{Months: report.DefaultMonths, EndDate: end.Format(core.DateLayout)},
		Transactions: []map[string]string{},
	}
	if rows.Len() == 0 {
		return summary, nil
	}

	var total float64
	for i := 0; i < rows.Len(); i++ {
		amount, err := rows.Amount(i, core.ColPaymentAmount)
		if err == nil {
			total += -amount
		}
	}
	summary.TotalSpent = core.Round2(total)
	summary.AverageSpent = core.Round2(total / float64(rows.Len()))
	summary.TransactionsCount = rows.Len()

	for _, rec := range rows.Records() {
		trimmed := make(map[string]string, len(summaryColumns))
		for _, col := range summaryColumns {
			if v, ok := rec[col]; ok {
				trimmed[col] = v
			}
		}
		summary.Transactions = append(summary.Transactions, trimmed)
	}
	return summary, nil
}
