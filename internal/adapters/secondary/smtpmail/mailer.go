// Package smtpmail delivers notification e-mails over SMTP.
package smtpmail

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"openframing-service/internal/config"
	ports "openframing-service/internal/core/ports/output"
)

type Mailer struct {
	client *mail.Client
	from   string
}

func New(cfg config.SMTPConfig) (ports.Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// NopMailer is used when SMTP is not configured; sends are silently dropped.
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
