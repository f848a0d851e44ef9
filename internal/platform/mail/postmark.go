// Package mail provides the outbound email senders: a Postmark-backed one for
// real delivery and a log-only one for local development.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrz1836/postmark"
)

// ErrInvalidConfig is returned when a sender is constructed without the
// settings it needs to deliver mail.
var ErrInvalidConfig = errors.New("invalid mail configuration")

// PostmarkSender delivers mail through the Postmark transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
	// timeout bounds a single send attempt so a stuck provider cannot hold
	// a request open indefinitely.
	timeout time.Duration
}

// NewPostmarkSender creates a Postmark-backed sender. Both tokens and the
// sender address are required; construction fails closed otherwise.
func NewPostmarkSender(serverToken, accountToken, from string, timeout time.Duration) (*PostmarkSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidConfig)
	}
	if accountToken == "" {
		return nil, fmt.Errorf("%w: account token is required", ErrInvalidConfig)
	}
	if from == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrInvalidConfig)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PostmarkSender{
		client:  postmark.NewClient(serverToken, accountToken),
		from:    from,
		timeout: timeout,
	}, nil
}

// Send delivers a single message and reports success or failure only; no
// retries are performed.
func (s *PostmarkSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.from,
		To:       to,
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("failed to send email: postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
