// Package views assembles the user-facing JSON views, starting with the
// home page dashboard.
package views

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cardstats/internal/core"
	"cardstats/internal/ledger"
	"cardstats/internal/market"
	"cardstats/internal/report"
	"cardstats/internal/table"
)

// AsOfLayout is the timestamp format the dashboard endpoint accepts.
const AsOfLayout = "2006-01-02 15:04:05"

// RateSource provides currency rates; a false result means the symbol's
// lookup failed and it is omitted from the view.
type RateSource interface {
	ExchangeRate(ctx context.Context, currency string) (float64, bool)
}

// StockSource provides stock prices with the same partial-result contract.
type StockSource interface {
	StockPrice(ctx context.Context, symbol string) (float64, bool)
}

// SettingsSource resolves the user's enrichment symbols.
type SettingsSource func() market.UserSettings

type Card struct {
	LastDigits string  `json:"last_digits"`
	TotalSpent float64 `json:"total_spent"`
	Cashback   float64 `json:"cashback"`
}

type TopTransaction struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type CurrencyRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

type StockPrice struct {
	Stock string  `json:"stock"`
	Price float64 `json:"price"`
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type ExpensesSummary struct {
	Total      float64          `json:"total"`
	Average    float64          `json:"average"`
	ByCategory []CategoryAmount `json:"by_category"`
}

// Dashboard is the home page payload.
type Dashboard struct {
	Greeting        string           `json:"greeting"`
	Cards           []Card           `json:"cards"`
	TopTransactions []TopTransaction `json:"top_transactions"`
	CurrencyRates   []CurrencyRate   `json:"currency_rates"`
	StockPrices     []StockPrice     `json:"stock_prices"`
	Expenses        ExpensesSummary  `json:"expenses"`
}

// Assembler builds the dashboard from the ledger and the market
// collaborators.
type Assembler struct {
	ledger   ledger.Reader
	rates    RateSource
	stocks   StockSource
	settings SettingsSource
	log      *slog.Logger
}

// NewAssembler wires an Assembler. rates, stocks and settings may be nil;
// the corresponding sections are then empty or defaulted.
func NewAssembler(src ledger.Reader, rates RateSource, stocks StockSource, settings SettingsSource, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if settings == nil {
		settings = market.DefaultSettings
	}
	return &Assembler{ledger: src, rates: rates, stocks: stocks, settings: settings, log: logger}
}

// HomePage assembles the dashboard for the given as-of timestamp
// ("YYYY-MM-DD HH:MM:SS"). The transaction scope is the as-of month up to
// and including the timestamp. Failed market lookups shrink the
// enrichment lists; a missing ledger or bad timestamp is an error for the
// boundary to render as an error payload.
func (a *Assembler) HomePage(ctx context.Context, asOf string) (Dashboard, error) {
	at, err := time.Parse(AsOfLayout, strings.TrimSpace(asOf))
	if err != nil {
		a.log.Error("invalid dashboard date", "date", asOf, "error", err)
		return Dashboard{}, fmt.Errorf("%w: expected %q", core.ErrInvalidDate, AsOfLayout)
	}

	full, err := a.ledger.Load(ctx)
	if err != nil {
		a.log.Error("failed to load transactions", "error", err)
		return Dashboard{}, fmt.Errorf("load transactions: %w", err)
	}
	if full.Len() == 0 {
		return Dashboard{}, core.ErrNoTransactions
	}

	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	scoped := full.Select(func(i int) bool {
		d, err := full.Date(i, core.ColOperationDate)
		if err != nil {
			return false
		}
		return !d.Before(monthStart) && !d.After(at)
	})
	a.log.Info("dashboard scope selected", "from", monthStart.Format(core.DateLayout),
		"to", at.Format(core.DateLayout), "transactions", scoped.Len())

	settings := a.settings()

	return Dashboard{
		Greeting:        Greeting(at),
		Cards:           cardsInfo(scoped),
		TopTransactions: topTransactions(scoped, 5),
		CurrencyRates:   a.currencyRates(ctx, settings.UserCurrencies),
		StockPrices:     a.stockPrices(ctx, settings.UserStocks),
		Expenses:        expensesSummary(scoped),
	}, nil
}

// Greeting buckets the hour of day: 5-11 morning, 12-17 afternoon, 18-22
// evening, anything else night.
func Greeting(at time.Time) string {
	switch hour := at.Hour(); {
	case hour >= 5 && hour < 12:
		return "Доброе утро"
	case hour >= 12 && hour < 18:
		return "Добрый день"
	case hour >= 18 && hour < 23:
		return "Добрый вечер"
	default:
		return "Доброй ночи"
	}
}

func cardsInfo(t *table.Table) []Card {
	if !t.HasColumn(core.ColCardNumber) || !t.HasColumn(core.ColOperationSum) {
		return []Card{}
	}

	spent := make(map[string]float64)
	seen := make(map[string]bool)
	var order []string
	for i := 0; i < t.Len(); i++ {
		number := strings.TrimSpace(t.Cell(i, core.ColCardNumber))
		if number == "" {
			continue
		}
		if !seen[number] {
			seen[number] = true
			order = append(order, number)
		}
		amount, err := t.Amount(i, core.ColOperationSum)
		if err == nil && amount < 0 {
			spent[number] += -amount
		}
	}

	cards := make([]Card, 0, len(order))
	for _, number := range order {
		digits := strings.ReplaceAll(number, "*", "")
		if len(digits) > 4 {
			digits = digits[len(digits)-4:]
		}
		total := core.Round2(spent[number])
		cards = append(cards, Card{
			LastDigits: digits,
			TotalSpent: total,
			Cashback:   core.Round2(spent[number] * 0.01),
		})
	}
	return cards
}

func topTransactions(t *table.Table, n int) []TopTransaction {
	if !t.HasColumn(core.ColOperationSum) {
		return []TopTransaction{}
	}

	top := t.Sorted(report.TopByAbsAmount(t, core.ColOperationSum, n))
	out := make([]TopTransaction, 0, top.Len())
	for i := 0; i < top.Len(); i++ {
		date := top.Cell(i, core.ColOperationDate)
		if d, err := top.Date(i, core.ColOperationDate); err == nil {
			date = d.Format(core.DateLayout)
		}
		amount, _ := top.Amount(i, core.ColOperationSum)
		out = append(out, TopTransaction{
			Date:        date,
			Amount:      core.Round2(-amount),
			Category:    top.Cell(i, core.ColCategory),
			Description: top.Cell(i, core.ColDescription),
		})
	}
	return out
}

func (a *Assembler) currencyRates(ctx context.Context, currencies []string) []CurrencyRate {
	rates := make([]CurrencyRate, 0, len(currencies))
	if a.rates == nil {
		return rates
	}
	for _, currency := range currencies {
		if rate, ok := a.rates.ExchangeRate(ctx, currency); ok {
			rates = append(rates, CurrencyRate{Currency: currency, Rate: rate})
		}
	}
	return rates
}

func (a *Assembler) stockPrices(ctx context.Context, symbols []string) []StockPrice {
	prices := make([]StockPrice, 0, len(symbols))
	if a.stocks == nil {
		return prices
	}
	for _, symbol := range symbols {
		if price, ok := a.stocks.StockPrice(ctx, symbol); ok {
			prices = append(prices, StockPrice{Stock: symbol, Price: price})
		}
	}
	return prices
}

func expensesSummary(t *table.Table) ExpensesSummary {
	summary := ExpensesSummary{ByCategory: []CategoryAmount{}}
	if !t.HasColumn(core.ColOperationSum) {
		return summary
	}

	byCategory := make(map[string]float64)
	var order []string
	var total float64
	count := 0
	for i := 0; i < t.Len(); i++ {
		amount, err := t.Amount(i, core.ColOperationSum)
		if err != nil || amount >= 0 {
			continue
		}
		total += -amount
		count++
		category := t.Cell(i, core.ColCategory)
		if _, seen := byCategory[category]; !seen {
			order = append(order, category)
		}
		byCategory[category] += -amount
	}
	if count == 0 {
		return summary
	}

	sort.SliceStable(order, func(a, b int) bool {
		return byCategory[order[a]] > byCategory[order[b]]
	})
	if len(order) > 3 {
		order = order[:3]
	}
	for _, category := range order {
		summary.ByCategory = append(summary.ByCategory, CategoryAmount{
			Category: category,
			Amount:   core.Round2(byCategory[category]),
		})
	}

	summary.Total = core.Round2(total)
	summary.Average = core.Round2(total / float64(count))
	return summary
}
