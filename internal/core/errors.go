package core

import "errors"

var (
	// ErrMissingColumn signals a caller contract violation: the input table
	// lacks a column the operation cannot work without.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNoTransactions signals an empty or unreadable source ledger.
	ErrNoTransactions = errors.New("no transaction data")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)
