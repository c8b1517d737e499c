// Package email sends transactional mail through Resend. When no API key is
// configured the service degrades to a disabled client that logs and drops.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"

	"toolhaven/internal/models"
)

// Service defines the outbound mail surface, allowing mock implementations
// in tests.
type Service interface {
	SendNewsletterWelcome(toEmail string) error
	SendContactNotification(msg models.ContactMessage) error
}

type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	notifyTo  string
}

// NewService builds the Resend-backed client. An empty apiKey yields a
// disabled no-op service rather than an error.
func NewService(apiKey, fromEmail, fromName string, lg *zap.SugaredLogger) Service {
	if apiKey == "" {
		lg.Infow("email disabled, RESEND_API_KEY not set")
		return disabled{lg: lg}
	}
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		notifyTo:  fromEmail,
	}
}

func (c *ResendClient) from() string {
	return fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)
}

func (c *ResendClient) SendNewsletterWelcome(toEmail string) error {
	params := &resend.SendEmailRequest{
		From:    c.from(),
		To:      []string{toEmail},
		Subject: "Welcome to the ToolHaven newsletter",
		Html: "<h2>You're in!</h2>" +
			"<p>Thanks for subscribing. You'll get a short digest of new AI tools and articles, no spam.</p>",
	}
	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send newsletter welcome: %w", err)
	}
	return nil
}

func (c *ResendClient) SendContactNotification(msg models.ContactMessage) error {
	params := &resend.SendEmailRequest{
		From:    c.from(),
		To:      []string{c.notifyTo},
		Subject: fmt.Sprintf("Contact form: %s %s", msg.FirstName, msg.LastName),
		Html: fmt.Sprintf("<p><strong>From:</strong> %s %s (%s)</p><p>%s</p>",
			msg.FirstName, msg.LastName, msg.Email, msg.Message),
	}
	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

type disabled struct {
	lg *zap.SugaredLogger
}

func (d disabled) SendNewsletterWelcome(toEmail string) error {
	d.lg.Debugw("email disabled, dropping newsletter welcome", "to", toEmail)
	return nil
}

func (d disabled) SendContactNotification(msg models.ContactMessage) error {
	d.lg.Debugw("email disabled, dropping contact notification", "from", msg.Email)
	return nil
}
