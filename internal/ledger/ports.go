// Package ledger defines the port for transaction sources and the factory
// selecting a concrete backend. A backend materializes the full ledger as
// an immutable table once per run; analytics never write back.
package ledger

import (
	"context"

	"cardstats/internal/table"
)

// Reader loads the transaction ledger from its source.
type Reader interface {
	Load(ctx context.Context) (*table.Table, error)
}
