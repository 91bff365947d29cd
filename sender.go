package outbox

import "context"

// Sender attempts synchronous transmission of a single message. Any non-nil
// error is treated as a transient failure; the outbox makes no
// transient-vs-permanent distinction at the transport boundary. Senders are
// idempotency-agnostic: double transmission is not prevented here.
type Sender interface {
	// Send transmits the message or returns the reason it could not.
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send implements Sender.
func (fn SenderFunc) Send(ctx context.Context, msg Message) error {
	return fn(ctx, msg)
}
