package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/reliamail/outbox"
)

const maxErrorLen = 1024

// Store implements the outbox Store on MySQL.
type Store struct {
	db      *sql.DB
	queries queries
	table   string
}

var _ outbox.Store = (*Store)(nil)

// NewStore constructs a MySQL store with validated configuration.
func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrDBRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	table, err := sanitizeTableName(cfg.Table)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		queries: newQueries(table),
		table:   table,
	}, nil
}

// MustNewStore constructs a MySQL store or panics on error.
func MustNewStore(db *sql.DB, opts ...Option) *Store {
	store, err := NewStore(db, opts...)
	if err != nil {
		panic(err)
	}

	return store
}

// Insert persists a new record.
func (s *Store) Insert(ctx context.Context, rec *outbox.Record) error {
	_, err := s.db.ExecContext(
		ctx,
		s.queries.insert,
		rec.ID.String(),
		rec.Recipient,
		rec.Subject,
		rec.Content,
		string(rec.Status),
		rec.RetryCount,
		nullableError(rec.LastError),
		nullableTime(rec.NextRetryAt),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("outbox mysql: insert failed: %w", err)
	}

	return nil
}

// Update persists the mutable fields of an existing record.
func (s *Store) Update(ctx context.Context, rec *outbox.Record) error {
	res, err := s.db.ExecContext(
		ctx,
		s.queries.update,
		string(rec.Status),
		rec.RetryCount,
		nullableError(rec.LastError),
		nullableTime(rec.NextRetryAt),
		rec.UpdatedAt,
		rec.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("outbox mysql: update failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("outbox mysql: update rows failed: %w", err)
	}
	if affected == 0 {
		return outbox.ErrNotFound
	}

	return nil
}

// Claim atomically moves a PENDING record to PROCESSING. A false result
// means the row was no longer PENDING.
func (s *Store) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		s.queries.claim,
		string(outbox.StatusProcessing),
		now,
		id.String(),
		string(outbox.StatusPending),
	)
	if err != nil {
		return false, fmt.Errorf("outbox mysql: claim failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("outbox mysql: claim rows failed: %w", err)
	}

	return affected == 1, nil
}

// Due returns PENDING records whose next retry time is unset or has passed,
// oldest first.
func (s *Store) Due(ctx context.Context, now time.Time) ([]*outbox.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.selectDue, string(outbox.StatusPending), now)
	if err != nil {
		return nil, fmt.Errorf("outbox mysql: select due failed: %w", err)
	}
	defer rows.Close()

	var records []*outbox.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox mysql: rows failed: %w", err)
	}

	return records, nil
}

// HasPending reports whether a PENDING record exists for the recipient.
func (s *Store) HasPending(ctx context.Context, recipient string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.queries.hasPending, recipient, string(outbox.StatusPending)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("outbox mysql: pending lookup failed: %w", err)
	}

	return true, nil
}

// DeleteFinishedBefore removes SENT and FAILED rows created before cutoff.
func (s *Store) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		s.queries.deleteFinished,
		string(outbox.StatusSent),
		string(outbox.StatusFailed),
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("outbox mysql: cleanup delete failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("outbox mysql: cleanup rows failed: %w", err)
	}

	return affected, nil
}

// CountByStatus returns per-status record counts.
func (s *Store) CountByStatus(ctx context.Context) (outbox.Statistics, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.countByStatus)
	if err != nil {
		return outbox.Statistics{}, fmt.Errorf("outbox mysql: count failed: %w", err)
	}
	defer rows.Close()

	var stats outbox.Statistics
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return outbox.Statistics{}, fmt.Errorf("outbox mysql: count scan failed: %w", err)
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
		return outbox.Statistics{}, fmt.Errorf("outbox mysql: count rows failed: %w", err)
	}

	return stats, nil
}

func scanRecord(rows *sql.Rows) (*outbox.Record, error) {
	var (
		id          string
		recipient   string
		subject     string
		content     string
		status      string
		retryCount  int
		lastError   sql.NullString
		nextRetryAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := rows.Scan(&id, &recipient, &subject, &content, &status, &retryCount,
		&lastError, &nextRetryAt, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("outbox mysql: scan failed: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("outbox mysql: invalid record id %q: %w", id, err)
	}

	rec := &outbox.Record{
		ID:         parsed,
		Recipient:  recipient,
		Subject:    subject,
		Content:    content,
		Status:     outbox.Status(status),
		RetryCount: retryCount,
		LastError:  lastError.String,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if nextRetryAt.Valid {
		next := nextRetryAt.Time
		rec.NextRetryAt = &next
	}

	return rec, nil
}

func nullableError(msg string) any {
	if msg == "" {
		return nil
	}

	return truncateError(msg)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return *t
}

func truncateError(msg string) string {
	if utf8.RuneCountInString(msg) <= maxErrorLen {
		return msg
	}

	runes := []rune(msg)

	return string(runes[:maxErrorLen])
}
