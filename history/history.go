/*
Package history records completed calculations.

PURPOSE:
  Every successful calculation served by the API can be saved with its
  input and its result, so that it can be listed, reopened and exported
  later (schedule CSV/PDF). The engine never reads history: a calculation
  always recomputes from its input.

KEY TYPES:
  Record: one saved calculation, keyed by a ULID
  Store:  persistence interface (memory and SQLite implementations)

RETENTION:
  Records are pruned by age with DeleteBefore, driven by the API's
  retention scheduler.

SEE ALSO:
  - memory.go: in-memory Store for tests and ephemeral servers
  - store/sqlite/sqlite.go: SQLite-backed Store
  - api/scheduler.go: retention pruning
*/
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrRecordNotFound is returned by callers that require a record to exist.
// Store.Get itself returns (nil, nil) for a missing ID.
var ErrRecordNotFound = errors.New("calculation not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is one saved calculation.
type Record struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	InputJSON  json.RawMessage `json:"input"`
	ResultJSON json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store persists calculation records.
type Store interface {
	// Save persists a record. The ID must be unique.
	Save(ctx context.Context, rec Record) error

	// Get returns the record with id, or nil if there is none.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns the newest records first, optionally filtered by kind.
	List(ctx context.Context, kind string, limit int) ([]Record, error)

	// DeleteBefore removes records created before cutoff and reports how
	// many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// NewRecord builds a record for a calculation completed at now. The result
// is marshalled here so every store keeps the same representation.
func NewRecord(kind string, input []byte, result any, now time.Time) (Record, error) {
	out, err := json.Marshal(result)
	if err != nil {
		return Record{}, err
	}
	in := json.RawMessage(input)
	if !json.Valid(in) {
		in, err = json.Marshal(string(input))
		if err != nil {
			return Record{}, err
		}
	}
	return Record{
		ID:         NewID(now),
		Kind:       kind,
		InputJSON:  in,
		ResultJSON: out,
		CreatedAt:  now.UTC(),
	}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
