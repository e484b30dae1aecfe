// Package csv reads the transaction ledger from a bank CSV export.
package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"cardstats/internal/table"
)

// Reader loads a CSV ledger from disk. The separator is detected from the
// header line: bank exports use ';', plain exports use ','.
type Reader struct {
	path string
}

// New returns a Reader for the given file path.
func New(path string) *Reader {
	return &Reader{path: path}
}

// Load reads the whole file and returns it as a table. The first line is
// the header; every other line is one transaction.
func (r *Reader) Load(ctx context.Context) (*table.Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger csv: %w", err)
	}
	defer f.Close()

	buffered := bufio.NewReader(f)
	headerLine, err := buffered.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}

	sep := ','
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		sep = ';'
	}

	parse := csv.NewReader(strings.NewReader(headerLine))
	parse.Comma = sep
	header, err := parse.Read()
	if err != nil {
		return nil, fmt.Errorf("parse ledger header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	body := csv.NewReader(buffered)
	body.Comma = sep
	body.FieldsPerRecord = -1
	rows, err := body.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger rows: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return table.New(header, rows), nil
}
