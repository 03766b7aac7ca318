// Package mailer delivers the account verification e-mail.
package mailer

import (
	"context"
	"net/url"
	"time"

	"softwire/internal/config"

	"go.uber.org/zap"
)

// VerificationMessage is everything needed to render and address a
// verification e-mail.
type VerificationMessage struct {
	// UserID identifies the recipient in logs.
	UserID          uint
	To              string
	FirstName       string
	VerificationURL string
	ExpiresIn       time.Duration
}

// Sender delivers verification messages.
type Sender interface {
	SendVerification(ctx context.Context, msg VerificationMessage) error
}

// VerificationLink builds the front-end link that carries token.
func VerificationLink(frontendURL, token string) string {
	return frontendURL + "/verify-email.html?token=" + url.QueryEscape(token)
}

// New picks the SMTP sender when SMTP_HOST is configured and the log-only
// sender otherwise, and throttles either one. The log-only sender prints
// verification links in development only.
func New(cfg *config.Config, logger *zap.Logger) (Sender, error) {
	var base Sender
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, verification emails will not be delivered")
		base = NewLogSender(logger, cfg.IsDevelopment())
	} else {
		smtp, err := NewSMTPSender(SMTPOptions{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.MailTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		base = smtp
	}
	return NewThrottledSender(base, cfg.MailRatePerSec, cfg.MailBurst), nil
}
