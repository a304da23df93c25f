package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "gopkg.in/gomail.v2"

	appconfig "github.com/samedayramps/tiny-church-app/internal/config"
)

// SMTPMailer sends email through an SMTP relay via gomail. Used when a
// church runs against a plain SMTP provider instead of SES.
type SMTPMailer struct {
	dialer *mail.Dialer
}

// NewSMTPMailer creates an SMTP mailer from relay settings.
func NewSMTPMailer(cfg appconfig.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}

	return &SMTPMailer{dialer: d}, nil
}

// Send delivers a single email through the SMTP relay. gomail does not
// take a context; the dial/send is bounded only by the relay's own
// timeouts.
func (m *SMTPMailer) Send(_ context.Context, msg *Message) error {
	em := mail.NewMessage()
	em.SetAddressHeader("From", msg.FromEmail, msg.FromName)
	em.SetHeader("To", msg.To)
	em.SetHeader("Subject", msg.Subject)
	for k, v := range msg.Headers {
		em.SetHeader(k, v)
	}
	em.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(em); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
