// Package services orchestrates the analytics operations: cashback
// analysis and the persisted spending reports, working over a ledger
// loaded through a backend.
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"cardstats/internal/core"
	"cardstats/internal/table"
)

// CashbackRate is the flat rate applied when estimating the cashback a
// category would have earned. The per-row recorded cashback is
// deliberately ignored.
const CashbackRate = 0.01

// CategoryCashback is one category's estimated cashback.
type CategoryCashback struct {
	Category string
	Amount   float64
}

// CashbackReport is an ordered category-to-cashback mapping, descending by
// amount. It marshals to a JSON object preserving that order.
type CashbackReport []CategoryCashback

// MarshalJSON writes the report as an object with keys in report order.
func (r CashbackReport) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(c.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Amount)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// cashbackColumns are the fields the analysis cannot run without.
var cashbackColumns = []string{
	core.ColOperationDate,
	core.ColCategory,
	core.ColPaymentAmount,
	core.ColCashback,
}

// AnalyzeCashback estimates, per category, the cashback the given month's
// expenses would have earned at the flat rate, ordered by descending
// amount with stable ties.
//
// Unlike the spending reports, a table missing any required column is a
// caller contract violation and returns an error wrapping
// core.ErrMissingColumn. A month with no matching expenses is valid and
// returns an empty report.
func AnalyzeCashback(t *table.Table, year, month int, logger *slog.Logger) (CashbackReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var missing []string
	for _, col := range cashbackColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		logger.Error("cashback input is missing required columns", "columns", missing)
		return nil, fmt.Errorf("%w: %s", core.ErrMissingColumn, strings.Join(missing, ", "))
	}

	totals := make(map[string]float64)
	var order []string
	for i := 0; i < t.Len(); i++ {
		d, err := t.Date(i, core.ColOperationDate)
		if err != nil {
			continue
		}
		if d.Year() != year || int(d.Month()) != month {
			continue
		}
		amount, err := t.Amount(i, core.ColPaymentAmount)
		if err != nil || amount >= 0 {
			continue
		}
		category := t.Cell(i, core.ColCategory)
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] += -amount
	}

	if len(order) == 0 {
		logger.Warn("no expenses for the requested month", "year", year, "month", month)
		return CashbackReport{}, nil
	}

	out := make(CashbackReport, 0, len(order))
	for _, category := range order {
		out = append(out, CategoryCashback{
			Category: category,
			Amount:   core.Round2(totals[category] * CashbackRate),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Amount > out[b].Amount })

	logger.Info("cashback analysis complete", "year", year, "month", month, "categories", len(out))
	return out, nil
}
