package outbox

// Message is a fully rendered email. The outbox never re-renders templates;
// template selection and rendering belong to the caller.
type Message struct {
	// To is the destination address, also used for duplicate suppression.
	To string
	// Subject is the rendered subject line.
	Subject string
	// Content is the rendered body (HTML or plain text).
	Content string
	// CC is an optional list of carbon-copy recipients.
	CC []string
	// BCC is an optional list of blind carbon-copy recipients.
	BCC []string
}

// Validate checks required fields.
func (m Message) Validate() error {
	if m.To == "" {
		return ErrRecipientRequired
	}
	if m.Subject == "" {
		return ErrSubjectRequired
	}
	if m.Content == "" {
		return ErrContentRequired
	}

	return nil
}
