// Package store provides record store adapters for the board: rectangular
// row storage over a delimited file or an embedded SQLite database.
//
// An adapter treats the data as an ordered grid of string cells with one
// authoritative header row. It knows nothing about task semantics; the
// board owns validation and the column mapping.
package store

import "context"

// Store is the record store contract consumed by the board.
//
// A backing medium that does not exist yet is created with the canonical
// header on first use. IO failures are surfaced to the caller and never
// retried here; retries are a collaborator's concern.
type Store interface {
	// LoadAll returns every row in natural order, header row first.
	LoadAll(ctx context.Context) ([][]string, error)

	// AppendRows appends data rows after the last existing row. All rows
	// are written in one store-level write.
	AppendRows(ctx context.Context, rows [][]string) error

	// OverwriteRows replaces existing data rows in place. Keys are 0-based
	// data-row indices (the header row is not addressable). All updates
	// are applied in one store-level write; an out-of-range index fails
	// the whole call before anything is written.
	OverwriteRows(ctx context.Context, rows map[int][]string) error
}
