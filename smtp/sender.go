// Package smtp adapts a plain SMTP server to the outbox Sender contract.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/reliamail/outbox"
)

var (
	// ErrHostRequired is returned when Config.Host is empty.
	ErrHostRequired = errors.New("outbox smtp: host is required")
	// ErrFromRequired is returned when Config.From is empty.
	ErrFromRequired = errors.New("outbox smtp: from address is required")
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	// From is the envelope sender and From header address.
	From string
}

// Sender delivers messages over SMTP with PLAIN auth and an HTML body.
type Sender struct {
	cfg  Config
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

var _ outbox.Sender = (*Sender)(nil)

// NewSender constructs an SMTP sender.
func NewSender(cfg Config) (*Sender, error) {
	if cfg.Host == "" {
		return nil, ErrHostRequired
	}
	if cfg.From == "" {
		return nil, ErrFromRequired
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}

	return &Sender{cfg: cfg, send: smtp.SendMail}, nil
}

// Send transmits the message. Any transport error is returned as-is; the
// outbox treats every non-nil error as a transient failure.
func (s *Sender) Send(ctx context.Context, msg outbox.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	// smtp.SendMail cannot be canceled mid-flight; honor an already-expired
	// deadline before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(addr, auth, s.cfg.From, envelopeRecipients(msg), buildMessage(s.cfg.From, msg)); err != nil {
		return fmt.Errorf("outbox smtp: send to %s failed: %w", msg.To, err)
	}

	return nil
}

func envelopeRecipients(msg outbox.Message) []string {
	recipients := make([]string, 0, 1+len(msg.CC)+len(msg.BCC))
	recipients = append(recipients, msg.To)
	recipients = append(recipients, msg.CC...)
	recipients = append(recipients, msg.BCC...)

	return recipients
}

// buildMessage renders RFC 5322 headers and the HTML body. BCC recipients go
// on the envelope only, never into headers.
func buildMessage(from string, msg outbox.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if len(msg.CC) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(msg.CC, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Content)

	return []byte(b.String())
}
