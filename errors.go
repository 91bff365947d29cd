package outbox

import "errors"

var (
	// ErrRecipientRequired is returned when Message.To is empty.
	ErrRecipientRequired = errors.New("outbox recipient is required")
	// ErrSubjectRequired is returned when Message.Subject is empty.
	ErrSubjectRequired = errors.New("outbox subject is required")
	// ErrContentRequired is returned when Message.Content is empty.
	ErrContentRequired = errors.New("outbox content is required")
	// ErrStoreRequired is returned when a nil Store is provided.
	ErrStoreRequired = errors.New("outbox store is required")
	// ErrSenderRequired is returned when a nil Sender is provided.
	ErrSenderRequired = errors.New("outbox sender is required")
	// ErrServiceRequired is returned when a nil Service is provided.
	ErrServiceRequired = errors.New("outbox service is required")
	// ErrNotFound signals that a record does not exist in the store.
	ErrNotFound = errors.New("outbox record not found")
)
