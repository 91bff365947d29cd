package outbox

// Status represents the lifecycle state of an outbox record.
type Status string

const (
	// StatusPending indicates the record is waiting for its next delivery attempt.
	StatusPending Status = "PENDING"
	// StatusProcessing indicates a delivery attempt is in flight.
	StatusProcessing Status = "PROCESSING"
	// StatusSent indicates the message was delivered. Terminal.
	StatusSent Status = "SENT"
	// StatusFailed indicates the retry budget was exhausted. Terminal.
	StatusFailed Status = "FAILED"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}
