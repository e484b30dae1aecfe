// Package core provides the shared vocabulary of the analytics pipeline:
// ledger column names, amount and date parsing, and rounding helpers.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a ledger cell to a signed amount.
//
// Bank exports use either a dot or a comma as the decimal separator
// ("-1500.50" and "-1500,50" are equivalent). Thousands separators are not
// expected. Returns ErrInvalidAmount for empty or non-numeric cells.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Round2 rounds half away from zero to two decimal places. All monetary
// figures leaving the pipeline pass through it.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to four decimal places, used for exchange rates.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
