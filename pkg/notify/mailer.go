package notify

import "context"

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// Email is one outgoing message. ReplyTo is optional.
type Email struct {
	From     string // "LubeStation <onboarding@resend.dev>"
	To       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
	// Tags are attached as provider metadata where supported.
	Tags map[string]string
}
