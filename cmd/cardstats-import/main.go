// cardstats-import loads a CSV ledger export into the SQLite backend so
// the server and report commands can run without the source file.
package main

import (
	"context"
	"flag"
	"os"

	"cardstats/internal/cli"
	"cardstats/internal/core"
	"cardstats/internal/ledger/csv"
	applog "cardstats/internal/log"
	"cardstats/internal/storage"
)

func main() {
	in := flag.String("in", "", "path to the CSV ledger export")
	db := flag.String("db", "", "SQLite database path (default: SQLITE_DB_PATH)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	path := *in
	if path == "" {
		path = cfg.LedgerCSVPath
	}
	if path == "" {
		logger.Error("No input file: pass -in or set LEDGER_CSV_PATH")
		os.Exit(2)
	}
	dbPath := *db
	if dbPath == "" {
		dbPath = cfg.SQLiteDBPath
	}

	ctx := context.Background()
	storageLog := logger.WithComponent(applog.ComponentStorage)

	t, err := csv.New(path).Load(ctx)
	if err != nil {
		logger.Error("Failed to read CSV ledger", "path", path, "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		storageLog.Error("Failed to open SQLite database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	inserted, err := repo.InsertRows(ctx, t.Rows(core.LedgerColumns...))
	if err != nil {
		storageLog.Error("Import failed", "inserted", inserted, "error", err)
		os.Exit(1)
	}
	storageLog.Info("Import complete", "path", path, "db", dbPath, "rows", inserted)
}
