package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single rendered email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send opens one SMTP session per message. gomail has no context support,
// so ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return ErrNoAddress
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Text)
	m.AddAlternative("text/html", email.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	return nil
}

// disabledSender is used when SMTP is not configured. Every send fails with
// ErrNotConfigured so callers report a degraded outcome.
type disabledSender struct{}

func (disabledSender) Send(context.Context, *Email) error {
	return ErrNotConfigured
}

func DisabledSender() Sender {
	return disabledSender{}
}
