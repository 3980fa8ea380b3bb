// Package email delivers plain-text quote summaries over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"riverhawk_quote_backend/platform/config"
)

// SMTPSender sends quote summaries through a direct SMTP connection via
// go-mail. Quote summaries are plain text, so no templates are rendered.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates a sender over the given email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (s *SMTPSender) Enabled() bool {
	return s.cfg.IsEmailEnabled()
}

// SendQuoteSummary delivers a plain-text quote summary to the recipient.
func (s *SMTPSender) SendQuoteSummary(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.GetSMTPPort()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.cfg.GetSMTPUsername() != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.GetSMTPUsername()),
			gomail.WithPassword(s.cfg.GetSMTPPassword()),
		)
	}

	client, err := gomail.NewClient(s.cfg.GetSMTPHost(), opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
