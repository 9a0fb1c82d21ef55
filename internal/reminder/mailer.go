package reminder

import (
	"context"
	"log"

	"gopkg.in/gomail.v2"
)

// SMTPConfig is the mail transport configuration, constructed once from the
// environment and injected here; nothing reads mail settings globally.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends reminder emails over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from cfg. From falls back to the username.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

// Send delivers one message. gomail has no context support, so the dial and
// send run in a goroutine and the result is abandoned if ctx expires first.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.dialer.DialAndSend(msg)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogTransport is used when no SMTP host is configured: it logs instead of
// sending, so local setups still exercise the scan path.
type LogTransport struct{}

// Send logs the would-be message and reports success.
func (LogTransport) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("reminder: smtp disabled, would send %q to %s", subject, to)
	return nil
}
