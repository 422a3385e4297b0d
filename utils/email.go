// utils/email.go
package utils

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"sweet-shop/models"
)

// ErrEmailDisabled is returned when no email provider is configured
var ErrEmailDisabled = errors.New("email delivery is not configured")

// EmailService sends checkout receipts through Postmark or SendGrid
type EmailService struct {
	postmark *postmark.Client
	sendgrid *sendgrid.Client
	sender   string
	logger   zerolog.Logger
}

// NewEmailService picks Postmark when a token is given, SendGrid otherwise.
// With neither, the service is disabled and sends nothing.
func NewEmailService(postmarkToken, sendgridKey, sender string, logger zerolog.Logger) *EmailService {
	es := &EmailService{sender: sender, logger: logger}
	switch {
	case postmarkToken != "":
		es.postmark = postmark.NewClient(postmarkToken, "")
	case sendgridKey != "":
		es.sendgrid = sendgrid.NewSendClient(sendgridKey)
	}
	return es
}

// Enabled reports whether a provider is configured
func (es *EmailService) Enabled() bool {
	return es != nil && (es.postmark != nil || es.sendgrid != nil)
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	if !es.Enabled() {
		return ErrEmailDisabled
	}

	if es.postmark != nil {
		_, err := es.postmark.SendEmail(postmark.Email{
			From:     es.sender,
			To:       toEmail,
			Subject:  subject,
			HtmlBody: htmlContent,
			TextBody: textContent,
		})
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	} else {
		message := mail.NewSingleEmail(
			mail.NewEmail("Sweet Shop", es.sender),
			subject,
			mail.NewEmail("", toEmail),
			textContent,
			htmlContent,
		)
		resp, err := es.sendgrid.Send(message)
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("failed to send email: sendgrid status %d", resp.StatusCode)
		}
	}

	es.logger.Info().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}

// SendReceiptEmail sends a purchase receipt for the given cart lines
func (es *EmailService) SendReceiptEmail(user *models.User, lines []models.CartLine, total decimal.Decimal) error {
	if user == nil || user.Email == "" {
		return errors.New("receipt needs a recipient")
	}
	htmlContent, textContent := ReceiptContent(user.Name, lines, total)
	return es.SendEmail(user.Email, "Your Sweet Shop receipt", htmlContent, textContent)
}

// ReceiptContent renders the HTML and plain text bodies of a receipt
func ReceiptContent(name string, lines []models.CartLine, total decimal.Decimal) (string, string) {
	var h, t strings.Builder

	fmt.Fprintf(&h, "<strong>Dear %s,</strong><br><br>Thank you for your purchase!<br><ul>", html.EscapeString(name))
	fmt.Fprintf(&t, "Dear %s,\n\nThank you for your purchase!\n\n", name)
	for _, l := range lines {
		fmt.Fprintf(&h, "<li>%d x %s: $%s</li>", l.Quantity, html.EscapeString(l.Sweet.Name), l.Subtotal().StringFixed(2))
		fmt.Fprintf(&t, "  %d x %s: $%s\n", l.Quantity, l.Sweet.Name, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&h, "</ul>Total Amount: <strong>$%s</strong>", total.StringFixed(2))
	fmt.Fprintf(&t, "\nTotal Amount: $%s\n", total.StringFixed(2))

	return h.String(), t.String()
}
