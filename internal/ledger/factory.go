package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"cardstats/internal/config"
	csvledger "cardstats/internal/ledger/csv"
	"cardstats/internal/ledger/gsheet"
	"cardstats/internal/ledger/memory"
	"cardstats/internal/storage"
)

// Result is an opened backend plus its cleanup, nil when the backend has
// nothing to release.
type Result struct {
	Reader  Reader
	Cleanup func() error
}

// Factory opens the configured ledger backend.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a backend factory.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{log: logger}
}

// Open constructs the backend selected by cfg.LedgerBackend.
func (f *Factory) Open(ctx context.Context, cfg *config.Config) (*Result, error) {
	switch cfg.LedgerBackend {
	case "csv":
		f.log.Info("Initialized CSV ledger backend", "path", cfg.LedgerCSVPath)
		return &Result{Reader: csvledger.New(cfg.LedgerCSVPath)}, nil

	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite ledger: %w", err)
		}
		f.log.Info("Initialized SQLite ledger backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Reader: repo, Cleanup: repo.Close}, nil

	case "sheets":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets ledger: %w", err)
		}
		f.log.Info("Initialized Google Sheets ledger backend")
		return &Result{Reader: cli}, nil

	case "memory":
		f.log.Info("Initialized memory ledger backend")
		return &Result{Reader: memory.Seeded()}, nil

	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.LedgerBackend)
	}
}
