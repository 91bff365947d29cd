package outbox

import (
	"time"

	"github.com/google/uuid"
)

const (
	backoffBase   = time.Minute
	backoffMaxExp = 6
)

// Record is one stored delivery obligation: a fully rendered message together
// with its retry state. Records are created by Service.RecordNewFailure and
// mutated only through the transition methods below.
type Record struct {
	ID          uuid.UUID
	Recipient   string
	Subject     string
	Content     string
	Status      Status
	RetryCount  int
	LastError   string
	NextRetryAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecord creates a PENDING record from a rendered message.
func NewRecord(msg Message, now time.Time) *Record {
	return &Record{
		ID:        uuid.New(),
		Recipient: msg.To,
		Subject:   msg.Subject,
		Content:   msg.Content,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Message rebuilds the transport-ready message from the record.
func (r *Record) Message() Message {
	return Message{
		To:      r.Recipient,
		Subject: r.Subject,
		Content: r.Content,
	}
}

// MarkProcessing flags the record as in flight ahead of a delivery attempt.
func (r *Record) MarkProcessing(now time.Time) {
	r.Status = StatusProcessing
	r.UpdatedAt = now
}

// MarkSent transitions the record to the SENT terminal state and clears any
// scheduled retry.
func (r *Record) MarkSent(now time.Time) {
	r.Status = StatusSent
	r.NextRetryAt = nil
	r.UpdatedAt = now
}

// RecordFailure notes a failed delivery attempt. The retry counter is
// incremented and the record either returns to PENDING with an exponentially
// backed-off NextRetryAt, or goes FAILED once maxRetries is reached.
// Calling it on an already FAILED record is a no-op.
func (r *Record) RecordFailure(cause string, maxRetries int, now time.Time) {
	if r.Status == StatusFailed {
		return
	}

	r.RetryCount++
	r.LastError = cause
	r.UpdatedAt = now

	if r.RetryCount >= maxRetries {
		r.Status = StatusFailed
		r.NextRetryAt = nil

		return
	}

	r.Status = StatusPending
	next := now.Add(retryBackoff(r.RetryCount))
	r.NextRetryAt = &next
}

// CanRetry reports whether the record is eligible for a delivery attempt:
// PENDING with no scheduled retry, or a scheduled retry that has passed.
func (r *Record) CanRetry(now time.Time) bool {
	if r.Status != StatusPending {
		return false
	}

	return r.NextRetryAt == nil || !r.NextRetryAt.After(now)
}

// retryBackoff returns the delay before attempt n+1: 1, 2, 4, ... minutes,
// capped at 64 minutes.
func retryBackoff(n int) time.Duration {
	exp := n - 1
	if exp > backoffMaxExp {
		exp = backoffMaxExp
	}

	return backoffBase << exp
}
