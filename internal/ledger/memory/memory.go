// Package memory provides an in-memory ledger backend for development and
// tests.
package memory

import (
	"context"
	"sync"

	"cardstats/internal/core"
	"cardstats/internal/table"
)

type Store struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

// New builds a store over the given header and rows.
func New(header []string, rows [][]string) *Store {
	return &Store{header: header, rows: rows}
}

// Seeded returns a store with a small fixed ledger, enough to exercise
// every report locally without external data.
func Seeded() *Store {
	return New(core.LedgerColumns, [][]string{
		{"15.01.2024 12:10:00", "15.01.2024", "-1500,50", "-1500,50", "Супермаркеты", "Лента", "*7197", "5411", "15"},
		{"16.01.2024 09:05:00", "16.01.2024", "-800,00", "-800,00", "Кафе и рестораны", "Кофейня", "*7197", "5812", "8"},
		{"20.01.2024 18:40:00", "20.01.2024", "-500,25", "-500,25", "Супермаркеты", "Пятёрочка", "*5091", "5411", "5"},
		{"21.01.2024 11:00:00", "21.01.2024", "-2500,00", "-2500,00", "Путешествия", "Авиабилеты", "*5091", "4511", "25"},
		{"25.01.2024 08:30:00", "25.01.2024", "45000,00", "45000,00", "Зарплата", "Аванс", "*7197", "0", "0"},
	})
}

// Append adds rows to the store. Used by tests and the import command's
// dry-run mode.
func (s *Store) Append(rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// Load returns the stored ledger as a table.
func (s *Store) Load(_ context.Context) (*table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return table.New(s.header, s.rows), nil
}
