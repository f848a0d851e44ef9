package mail

import (
	"context"
	"log/slog"
)

// DevSender logs outgoing mail instead of delivering it. It is wired in when
// no Postmark token is configured, so the OTP flows stay usable locally.
type DevSender struct{}

// NewDevSender creates a log-only sender.
func NewDevSender() *DevSender {
	return &DevSender{}
}

// Send logs the message and always succeeds.
func (s *DevSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	slog.Info("dev mail sender: delivery skipped",
		"to", to,
		"subject", subject,
		"text_body", textBody,
	)
	return nil
}
