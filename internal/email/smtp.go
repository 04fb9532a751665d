// Package email delivers quote documents over SMTP using go-mail.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	quotesvc "orcamento_backend/internal/quotes/service"
	"orcamento_backend/platform/config"
)

// SMTPSender implements the quotes Sender port over a plain SMTP connection.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates an SMTP-backed sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var _ quotesvc.Sender = (*SMTPSender)(nil)

// SendQuote mails the quote PDF to a single recipient. The custom message, if
// any, goes above the standard summary.
func (s *SMTPSender) SendQuote(ctx context.Context, to string, doc quotesvc.QuoteDocument, message string, pdf []byte) error {
	msg, err := s.buildMessage(to, doc, message, pdf)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.GetSMTPHost(),
		gomail.WithPort(s.cfg.GetSMTPPort()),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.GetSMTPUsername()),
		gomail.WithPassword(s.cfg.GetSMTPPassword()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(to string, doc quotesvc.QuoteDocument, message string, pdf []byte) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}

	msg.Subject(fmt.Sprintf("Orcamento para %s", doc.Client.Name))
	msg.SetBodyString(gomail.TypeTextHTML, renderQuoteBody(doc, message))
	if err := msg.AttachReader(fmt.Sprintf("orcamento-%s.pdf", doc.Quote.ID), bytes.NewReader(pdf)); err != nil {
		return nil, fmt.Errorf("smtp attach: %w", err)
	}
	return msg, nil
}

func renderQuoteBody(doc quotesvc.QuoteDocument, message string) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: sans-serif; color: #111827;\">")
	b.WriteString(fmt.Sprintf("<p>Ola %s,</p>", html.EscapeString(doc.Client.Name)))
	if message != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(message)))
	}
	b.WriteString("<p>Segue em anexo o orcamento solicitado:</p><ul>")
	for _, item := range doc.Quote.Items {
		b.WriteString(fmt.Sprintf("<li>%s &times; %d</li>", html.EscapeString(item.ServiceName), item.Quantity))
	}
	b.WriteString("</ul>")
	b.WriteString(fmt.Sprintf("<p><strong>Total: R$ %d,%02d</strong></p>",
		doc.Quote.TotalCents/100, doc.Quote.TotalCents%100))
	b.WriteString("</body></html>")
	return b.String()
}
