package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the durable record store contract. Implementations must provide
// row-level upserts and the queries below; see the mysql and postgres
// packages.
type Store interface {
	// Insert persists a new record.
	Insert(ctx context.Context, rec *Record) error
	// Update persists all mutable fields of an existing record by ID.
	Update(ctx context.Context, rec *Record) error
	// Claim atomically moves a PENDING record to PROCESSING and reports
	// whether this caller won the claim. A false result without error means
	// the record was no longer PENDING (typically claimed by another sweep).
	Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	// Due returns PENDING records whose NextRetryAt is unset or has passed,
	// oldest first.
	Due(ctx context.Context, now time.Time) ([]*Record, error)
	// HasPending reports whether a PENDING record exists for the recipient.
	HasPending(ctx context.Context, recipient string) (bool, error)
	// DeleteFinishedBefore removes SENT and FAILED records created before
	// cutoff and returns the number of rows deleted. PENDING and PROCESSING
	// records are never removed.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// CountByStatus returns per-status record counts.
	CountByStatus(ctx context.Context) (Statistics, error)
}
