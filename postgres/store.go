package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reliamail/outbox"
)

// Schema is the CREATE TABLE statement for the backing table.
const Schema = `CREATE TABLE IF NOT EXISTS email_outbox (
	id UUID PRIMARY KEY,
	recipient VARCHAR(320) NOT NULL,
	subject VARCHAR(998) NOT NULL,
	content TEXT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	retry_count INT NOT NULL DEFAULT 0,
	last_error VARCHAR(1024),
	next_retry_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_email_outbox_status ON email_outbox (status);
CREATE INDEX IF NOT EXISTS idx_email_outbox_next_retry ON email_outbox (status, next_retry_at);`

// ErrDBRequired is returned when a nil *sql.DB is provided.
var ErrDBRequired = errors.New("outbox postgres: db is required")

// Store implements the outbox Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ outbox.Store = (*Store)(nil)

// NewStore constructs a PostgreSQL store.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBRequired
	}

	return &Store{db: db}, nil
}

// Insert persists a new record.
func (s *Store) Insert(ctx context.Context, rec *outbox.Record) error {
	query := `
        INSERT INTO email_outbox
        (id, recipient, subject, content, status, retry_count, last_error, next_retry_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Recipient,
		rec.Subject,
		rec.Content,
		string(rec.Status),
		rec.RetryCount,
		nullString(rec.LastError),
		nullTime(rec.NextRetryAt),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("outbox postgres: insert failed: %w", err)
	}

	return nil
}

// Update persists the mutable fields of an existing record.
func (s *Store) Update(ctx context.Context, rec *outbox.Record) error {
	query := `
        UPDATE email_outbox
        SET status = $1, retry_count = $2, last_error = $3, next_retry_at = $4, updated_at = $5
        WHERE id = $6
    `
	res, err := s.db.ExecContext(ctx, query,
		string(rec.Status),
		rec.RetryCount,
		nullString(rec.LastError),
		nullTime(rec.NextRetryAt),
		rec.UpdatedAt,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("outbox postgres: update failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("outbox postgres: update rows failed: %w", err)
	}
	if affected == 0 {
		return outbox.ErrNotFound
	}

	return nil
}

// Claim atomically moves a PENDING record to PROCESSING.
func (s *Store) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
        UPDATE email_outbox
        SET status = $1, updated_at = $2
        WHERE id = $3 AND status = $4
    `
	res, err := s.db.ExecContext(ctx, query,
		string(outbox.StatusProcessing), now, id, string(outbox.StatusPending))
	if err != nil {
		return false, fmt.Errorf("outbox postgres: claim failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("outbox postgres: claim rows failed: %w", err)
	}

	return affected == 1, nil
}

// Due returns PENDING records whose next retry time is unset or has passed,
// oldest first.
func (s *Store) Due(ctx context.Context, now time.Time) ([]*outbox.Record, error) {
	query := `
        SELECT id, recipient, subject, content, status, retry_count, last_error, next_retry_at, created_at, updated_at
        FROM email_outbox
        WHERE status = $1 AND (next_retry_at IS NULL OR next_retry_at <= $2)
        ORDER BY created_at ASC
    `
	rows, err := s.db.QueryContext(ctx, query, string(outbox.StatusPending), now)
	if err != nil {
		return nil, fmt.Errorf("outbox postgres: select due failed: %w", err)
	}
	defer rows.Close()

	var records []*outbox.Record
	for rows.Next() {
		var (
			rec         outbox.Record
			status      string
			lastError   sql.NullString
			nextRetryAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Recipient, &rec.Subject, &rec.Content, &status,
			&rec.RetryCount, &lastError, &nextRetryAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("outbox postgres: scan failed: %w", err)
		}
		rec.Status = outbox.Status(status)
		rec.LastError = lastError.String
		if nextRetryAt.Valid {
			next := nextRetryAt.Time
			rec.NextRetryAt = &next
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox postgres: rows failed: %w", err)
	}

	return records, nil
}

// HasPending reports whether a PENDING record exists for the recipient.
func (s *Store) HasPending(ctx context.Context, recipient string) (bool, error) {
	query := `
        SELECT 1 FROM email_outbox
        WHERE recipient = $1 AND status = $2
        LIMIT 1
    `
	var one int
	err := s.db.QueryRowContext(ctx, query, recipient, string(outbox.StatusPending)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("outbox postgres: pending lookup failed: %w", err)
	}

	return true, nil
}

// DeleteFinishedBefore removes SENT and FAILED rows created before cutoff.
func (s *Store) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
        DELETE FROM email_outbox
        WHERE status IN ($1, $2) AND created_at < $3
    `
	res, err := s.db.ExecContext(ctx, query,
		string(outbox.StatusSent), string(outbox.StatusFailed), cutoff)
	if err != nil {
		return 0, fmt.Errorf("outbox postgres: cleanup delete failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("outbox postgres: cleanup rows failed: %w", err)
	}

	return affected, nil
}

// CountByStatus returns per-status record counts.
func (s *Store) CountByStatus(ctx context.Context) (outbox.Statistics, error) {
	query := `SELECT status, COUNT(*) FROM email_outbox GROUP BY status`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return outbox.Statistics{}, fmt.Errorf("outbox postgres: count failed: %w", err)
	}
	defer rows.Close()

	var stats outbox.Statistics
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return outbox.Statistics{}, fmt.Errorf("outbox postgres: count scan failed: %w", err)
		}
		switch outbox.Status(status) {
		case outbox.StatusPending:
			stats.Pending = count
		case outbox.StatusProcessing:
			stats.Processing = count
		case outbox.StatusSent:
			stats.Sent = count
		case outbox.StatusFailed:
			stats.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return outbox.Statistics{}, fmt.Errorf("outbox postgres: count rows failed: %w", err)
	}

	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
