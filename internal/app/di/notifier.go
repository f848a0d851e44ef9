package di

import (
	"log/slog"
	"time"

	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/mail"
)

// NewNotifier creates the mail sender implementation.
// With a Postmark server token configured it returns the real transport;
// otherwise it falls back to the log-only dev sender.
func NewNotifier(cfg *config.Config) (usecase.Notifier, error) {
	if cfg.PostmarkServerToken == "" {
		slog.Warn("POSTMARK_SERVER_TOKEN is not set; using dev mail sender")
		return mail.NewDevSender(), nil
	}
	return mail.NewPostmarkSender(
		cfg.PostmarkServerToken,
		cfg.PostmarkAccountToken,
		cfg.SenderEmail,
		time.Duration(cfg.MailTimeoutSeconds)*time.Second,
	)
}
