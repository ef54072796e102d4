// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendDemandDigest(toEmail string, windowDays int, rows []templates.DigestRow) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewService creates a new email service client, returning the Service interface.
func NewService(apiKey, from string) (Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		from = "Harbor <digest@harborcommerce.dev>"
	}

	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// SendDemandDigest composes and sends the demand digest email.
func (c *ResendClient) SendDemandDigest(toEmail string, windowDays int, rows []templates.DigestRow) error {
	subject := fmt.Sprintf("Search demand digest: %d surging queries", len(rows))

	content := templates.GetDigestEmailContent(templates.DigestEmailProps{
		WindowDays: windowDays,
		Rows:       rows,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Title:   "Demand signals",
		Content: content,
	})

	request := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(request); err != nil {
		return fmt.Errorf("failed to send demand digest: %w", err)
	}

	return nil
}
