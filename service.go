package outbox

import (
	"context"
	"fmt"
	"time"
)

const hoursPerDay = 24

// Service owns all outbox policy: enqueue-on-failure with duplicate
// suppression, state transitions, retention cleanup, and statistics.
// All persistence goes through a single Store.
type Service struct {
	store Store
	cfg   Config
}

// NewService constructs a Service with defaults and optional settings.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Service{store: store, cfg: cfg}, nil
}

// RecordNewFailure durably records a message whose live send failed. If a
// PENDING record already exists for the same recipient the call is silently
// suppressed. It never returns an error: it runs in an already-failing
// context, so store problems are logged and swallowed.
func (s *Service) RecordNewFailure(ctx context.Context, msg Message, cause error) {
	if err := msg.Validate(); err != nil {
		s.cfg.Logger.Warn("outbox enqueue rejected", "to", msg.To, "err", err)

		return
	}

	exists, err := s.store.HasPending(ctx, msg.To)
	if err != nil {
		s.cfg.Logger.Error("outbox pending lookup failed", "to", msg.To, "err", err)

		return
	}
	if exists {
		s.cfg.Logger.Warn("outbox enqueue suppressed, pending record exists", "to", msg.To)

		return
	}

	now := s.cfg.Clock.Now()
	rec := NewRecord(msg, now)
	rec.RecordFailure(errorText(cause), s.cfg.MaxRetryCount, now)

	if err := s.store.Insert(ctx, rec); err != nil {
		s.cfg.Logger.Error("outbox insert failed", "to", msg.To, "err", err)

		return
	}

	s.cfg.Logger.Info("failed email recorded in outbox",
		"id", rec.ID, "to", rec.Recipient, "retryCount", rec.RetryCount)
}

// Due returns the records eligible for a delivery attempt right now.
func (s *Service) Due(ctx context.Context) ([]*Record, error) {
	return s.store.Due(ctx, s.cfg.Clock.Now())
}

// BeginProcessing claims the record for this sweep. A false result means
// another sweep already owns it and it must be skipped.
func (s *Service) BeginProcessing(ctx context.Context, rec *Record) (bool, error) {
	now := s.cfg.Clock.Now()
	claimed, err := s.store.Claim(ctx, rec.ID, now)
	if err != nil {
		return false, fmt.Errorf("outbox claim failed: %w", err)
	}
	if !claimed {
		return false, nil
	}

	rec.MarkProcessing(now)

	return true, nil
}

// MarkSent finalizes a successful delivery.
func (s *Service) MarkSent(ctx context.Context, rec *Record) error {
	rec.MarkSent(s.cfg.Clock.Now())
	if err := s.store.Update(ctx, rec); err != nil {
		return fmt.Errorf("outbox sent update failed: %w", err)
	}

	s.cfg.Logger.Info("outbox email sent", "id", rec.ID, "to", rec.Recipient)

	return nil
}

// RecordFailure notes another failed attempt and persists the resulting
// state, either a scheduled retry or the FAILED terminal state.
func (s *Service) RecordFailure(ctx context.Context, rec *Record, cause error) error {
	rec.RecordFailure(errorText(cause), s.cfg.MaxRetryCount, s.cfg.Clock.Now())
	if err := s.store.Update(ctx, rec); err != nil {
		return fmt.Errorf("outbox failure update failed: %w", err)
	}

	if rec.Status == StatusFailed {
		s.cfg.Logger.Error("outbox email failed permanently",
			"id", rec.ID, "to", rec.Recipient, "retryCount", rec.RetryCount)
	} else {
		s.cfg.Logger.Warn("outbox email send failed, retry scheduled",
			"id", rec.ID, "to", rec.Recipient,
			"retryCount", rec.RetryCount, "maxRetryCount", s.cfg.MaxRetryCount,
			"nextRetryAt", rec.NextRetryAt)
	}

	return nil
}

// Cleanup deletes terminal records older than the retention window and
// returns the number of rows removed.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.cfg.Clock.Now().Add(-time.Duration(s.cfg.RetentionDays) * hoursPerDay * time.Hour)
	deleted, err := s.store.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("outbox cleanup failed: %w", err)
	}

	if deleted > 0 {
		s.cfg.Logger.Info("old outbox emails removed",
			"deleted", deleted, "retentionDays", s.cfg.RetentionDays)
	}

	return deleted, nil
}

// Statistics returns per-status record counts.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	stats, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Statistics{}, fmt.Errorf("outbox statistics failed: %w", err)
	}

	return stats, nil
}

// MaxRetryCount exposes the configured retry budget.
func (s *Service) MaxRetryCount() int {
	return s.cfg.MaxRetryCount
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
