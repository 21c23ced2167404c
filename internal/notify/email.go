// Package notify provides the email and SMS notification transports.
package notify

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Attachment is one file carried by an email notification.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To          string
	Subject     string
	Body        string
	HTML        string
	Attachments []Attachment
}

// EmailSender defines the interface for sending emails. Implementations
// can be swapped (SendGrid, SMTP) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SendGridSender sends emails via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// NewSendGridSender creates a SendGrid email sender. Returns nil when no
// API key is configured; callers fall back to the stub sender.
func NewSendGridSender(apiKey, fromEmail, fromName string, logger *zap.Logger) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// Send delivers one email, including any attachments as base64 content.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	for _, att := range msg.Attachments {
		attachment := mail.NewAttachment()
		attachment.SetFilename(att.Filename)
		attachment.SetType(att.ContentType)
		attachment.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("SendGrid returned error status",
			zap.Int("status", response.StatusCode),
			zap.String("to", msg.To))
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)))

	return nil
}

// StubEmailSender logs instead of sending. Used when email is not
// configured so the ingest pipeline keeps its best-effort contract.
type StubEmailSender struct {
	logger *zap.Logger
}

func NewStubEmailSender(logger *zap.Logger) *StubEmailSender {
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("Email sending disabled, dropping notification",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
