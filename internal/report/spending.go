package report

import (
	"log/slog"
	"sort"
	"time"

	"cardstats/internal/core"
	"cardstats/internal/table"
)

// Generator computes spending reports over a transaction table. Malformed
// input (missing columns, unparseable dates) degrades to empty results
// with a logged diagnostic; it never produces an error.
type Generator struct {
	log *slog.Logger
	now func() time.Time
}

// NewGenerator returns a Generator logging through logger. A nil logger
// falls back to the process default; now overrides the clock for tests.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{log: logger, now: time.Now}
}

// WithClock returns a copy of the generator using now as its clock.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	return &Generator{log: g.log, now: now}
}

// dateColumn resolves the date column: operation date first, payment date
// as fallback.
func dateColumn(t *table.Table) (string, bool) {
	if t.HasColumn(core.ColOperationDate) {
		return core.ColOperationDate, true
	}
	if t.HasColumn(core.ColPaymentDate) {
		return core.ColPaymentDate, true
	}
	return "", false
}

// expensesInWindow narrows t to expense rows (negative payment amount)
// whose date lies inside the window. Rows with unparseable dates are
// dropped. The bool result is false when a required column is absent.
func (g *Generator) expensesInWindow(t *table.Table, w Window) (*table.Table, string, bool) {
	if !t.HasColumn(core.ColPaymentAmount) {
		g.log.Error("report input is missing the amount column", "column", core.ColPaymentAmount)
		return table.Empty(), "", false
	}
	dateCol, ok := dateColumn(t)
	if !ok {
		g.log.Error("report input is missing a date column")
		return table.Empty(), "", false
	}
	filtered := t.Select(func(i int) bool {
		d, err := t.Date(i, dateCol)
		if err != nil {
			return false
		}
		if !w.Contains(d) {
			return false
		}
		amount, err := t.Amount(i, core.ColPaymentAmount)
		return err == nil && amount < 0
	})
	return filtered, dateCol, true
}

// ByCategory returns the expense rows of the given category within the
// trailing window ending at asOf. The full row set is returned so callers
// can inspect individual transactions as well as totals. An unknown
// category yields an empty table, not an error.
func (g *Generator) ByCategory(t *table.Table, category string, asOf string) *table.Table {
	end, usedDefault := ResolveAsOf(asOf, g.now)
	if usedDefault {
		g.log.Warn("unparseable as-of date, using current date", "date", asOf)
	}
	w := NewWindow(end, DefaultMonths)

	if !t.HasColumn(core.ColCategory) {
		g.log.Error("report input is missing the category column", "column", core.ColCategory)
		return table.Empty()
	}
	filtered, _, ok := g.expensesInWindow(t, w)
	if !ok {
		return table.Empty()
	}
	result := filtered.Select(func(i int) bool {
		return filtered.Cell(i, core.ColCategory) == category
	})
	g.log.Info("category spending computed",
		"category", category,
		"window", w.String(),
		"transactions", result.Len())
	return result
}

// WeekdaySpend is one row of the by-weekday report. JSON keys follow the
// ledger's locale.
type WeekdaySpend struct {
	Index   int     `json:"день_недели"`
	Name    string  `json:"название_дня"`
	Average float64 `json:"средние_траты"`
	Total   float64 `json:"общие_траты"`
	Count   int     `json:"количество_транзакций"`
}

// ByWeekday groups expenses in the trailing window by weekday and returns
// average, total and count of absolute amounts per day, ordered by weekday
// index. Weekdays without transactions are omitted.
func (g *Generator) ByWeekday(t *table.Table, asOf string) []WeekdaySpend {
	end, usedDefault := ResolveAsOf(asOf, g.now)
	if usedDefault {
		g.log.Warn("unparseable as-of date, using current date", "date", asOf)
	}
	w := NewWindow(end, DefaultMonths)

	filtered, dateCol, ok := g.expensesInWindow(t, w)
	if !ok {
		return nil
	}

	totals := make(map[int]float64)
	counts := make(map[int]int)
	for i := 0; i < filtered.Len(); i++ {
		d, err := filtered.Date(i, dateCol)
		if err != nil {
			continue
		}
		amount, err := filtered.Amount(i, core.ColPaymentAmount)
		if err != nil {
			continue
		}
		idx := core.WeekdayIndex(d)
		totals[idx] += -amount
		counts[idx]++
	}

	var out []WeekdaySpend
	for idx := 0; idx < 7; idx++ {
		n := counts[idx]
		if n == 0 {
			continue
		}
		out = append(out, WeekdaySpend{
			Index:   idx,
			Name:    core.WeekdayNames[idx],
			Average: core.Round2(totals[idx] / float64(n)),
			Total:   core.Round2(totals[idx]),
			Count:   n,
		})
	}
	g.log.Info("weekday spending computed", "window", w.String(), "weekdays", len(out))
	return out
}

// DayPartSummary aggregates one side of the workday/weekend split.
type DayPartSummary struct {
	TotalSpent       float64 `json:"total_spent"`
	AvgSpentPerDay   float64 `json:"avg_spent_per_day"`
	AvgSpentPerTxn   float64 `json:"avg_spent_per_transaction"`
	TransactionCount int     `json:"transaction_count"`
	DaysCount        int     `json:"days_count"`
}

// WorkdayComparison relates the two partitions of the split.
type WorkdayComparison struct {
	Ratio          float64 `json:"workday_vs_weekend_ratio"`
	WorkdayPercent float64 `json:"workday_percent"`
	WeekendPercent float64 `json:"weekend_percent"`
}

// WorkdayReport is the result of the workday/weekend comparison. Both
// partitions are always present, zero-filled when empty.
type WorkdayReport struct {
	Workday    DayPartSummary    `json:"workday"`
	Weekend    DayPartSummary    `json:"weekend"`
	Comparison WorkdayComparison `json:"comparison"`
}

// ByWorkday partitions expenses in the trailing window into workdays
// (Mon-Fri) and weekends (Sat-Sun) and compares the two.
func (g *Generator) ByWorkday(t *table.Table, asOf string) WorkdayReport {
	end, usedDefault := ResolveAsOf(asOf, g.now)
	if usedDefault {
		g.log.Warn("unparseable as-of date, using current date", "date", asOf)
	}
	w := NewWindow(end, DefaultMonths)

	filtered, dateCol, ok := g.expensesInWindow(t, w)
	if !ok {
		return WorkdayReport{}
	}

	type bucket struct {
		total float64
		count int
		days  map[string]struct{}
	}
	parts := map[bool]*bucket{
		false: {days: make(map[string]struct{})}, // workday
		true:  {days: make(map[string]struct{})}, // weekend
	}
	for i := 0; i < filtered.Len(); i++ {
		d, err := filtered.Date(i, dateCol)
		if err != nil {
			continue
		}
		amount, err := filtered.Amount(i, core.ColPaymentAmount)
		if err != nil {
			continue
		}
		weekend := core.WeekdayIndex(d) >= 5
		b := parts[weekend]
		b.total += -amount
		b.count++
		b.days[d.Format(core.DateLayout)] = struct{}{}
	}

	summarize := func(b *bucket) DayPartSummary {
		s := DayPartSummary{
			TotalSpent:       core.Round2(b.total),
			TransactionCount: b.count,
			DaysCount:        len(b.days),
		}
		if len(b.days) > 0 {
			s.AvgSpentPerDay = core.Round2(b.total / float64(len(b.days)))
		}
		if b.count > 0 {
			s.AvgSpentPerTxn = core.Round2(b.total / float64(b.count))
		}
		return s
	}

	result := WorkdayReport{
		Workday: summarize(parts[false]),
		Weekend: summarize(parts[true]),
	}
	if result.Weekend.AvgSpentPerDay > 0 {
		result.Comparison.Ratio = core.Round2(result.Workday.AvgSpentPerDay / result.Weekend.AvgSpentPerDay)
	}
	combined := result.Workday.TotalSpent + result.Weekend.TotalSpent
	if combined > 0 {
		result.Comparison.WorkdayPercent = core.Round2(result.Workday.TotalSpent / combined * 100)
		result.Comparison.WeekendPercent = core.Round2(result.Weekend.TotalSpent / combined * 100)
	}
	g.log.Info("workday spending computed", "window", w.String(),
		"workday_transactions", result.Workday.TransactionCount,
		"weekend_transactions", result.Weekend.TransactionCount)
	return result
}

// TopByAbsAmount returns the indices of the n rows of t with the largest
// absolute value in column amountCol, descending, ties kept in row order.
func TopByAbsAmount(t *table.Table, amountCol string, n int) []int {
	type rowAmount struct {
		idx int
		abs float64
	}
	var rows []rowAmount
	for i := 0; i < t.Len(); i++ {
		amount, err := t.Amount(i, amountCol)
		if err != nil {
			continue
		}
		if amount < 0 {
			rows = append(rows, rowAmount{idx: i, abs: -amount})
		}
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].abs > rows[b].abs })
	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.idx
	}
	return out
}
