// Package outbox provides a reliable-delivery outbox for transactional email.
//
// Typical flow:
//  1. When a live send fails, hand the rendered message to Service.RecordNewFailure.
//     The failure is recorded durably with a retry schedule; duplicates for the
//     same recipient are suppressed while an earlier record is still pending.
//  2. Run a Scheduler to periodically sweep due records, attempt delivery through
//     a Sender, and feed the outcome back into the record's state machine.
//  3. Records end in a terminal state (SENT or FAILED) and are purged by the
//     retention cleanup once older than the configured window.
//
// Storage backends live in the mysql and postgres packages; an SMTP transport
// adapter lives in the smtp package.
package outbox
