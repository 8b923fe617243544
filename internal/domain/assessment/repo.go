package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist for the given user.
var ErrNotFound = errors.New("assessment record not found")

// HistoryRepository is the per-user assessment history log. Histories are
// append-only and strictly scoped to one user; no operation can read or
// write across user boundaries.
type HistoryRepository interface {
	// Init creates an empty history for a new user. Idempotent: an
	// existing history is left untouched.
	Init(ctx context.Context, userID uuid.UUID) error

	// Append adds one record to the owner's history.
	Append(ctx context.Context, rec *Record) error

	// Load returns the full history in chronological (insertion) order.
	// A missing history is created empty; unreadable history data is
	// treated as empty rather than failing the caller.
	Load(ctx context.Context, userID uuid.UUID) ([]*Record, error)

	// List returns a page of the history, newest first, with the total
	// record count.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, int, error)

	// GetByID returns one record owned by the given user, or ErrNotFound.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Record, error)
}
