package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	log    *zap.Logger
}

func NewResendMailer(apiKey string, log *zap.Logger) *ResendMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendMailer{client: resend.NewClient(apiKey), log: log}
}

func (m *ResendMailer) Send(ctx context.Context, e Email) error {
	sent, err := m.client.Emails.SendWithContext(ctx, resendRequest(e))
	if err != nil {
		return fmt.Errorf("resend: failed to send %q: %w", e.Subject, err)
	}
	m.log.Info("email sent", zap.String("email_id", sent.Id), zap.Strings("to", e.To))
	return nil
}

func resendRequest(e Email) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    e.From,
		To:      e.To,
		Subject: e.Subject,
		Html:    e.HTMLBody,
		ReplyTo: e.ReplyTo,
	}
	for name, value := range e.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: value})
	}
	return req
}
