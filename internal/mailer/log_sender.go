package mailer

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNotDelivered is returned by senders that accept a message without
// handing it to a mail relay.
var ErrNotDelivered = errors.New("verification email not delivered: no mail relay configured")

// LogSender stands in for a relay when SMTP_HOST is unset. It never delivers,
// and writes the verification link to the log only when showLink is set.
type LogSender struct {
	logger   *zap.Logger
	showLink bool
}

func NewLogSender(logger *zap.Logger, showLink bool) *LogSender {
	return &LogSender{logger: logger, showLink: showLink}
}

func (s *LogSender) SendVerification(_ context.Context, msg VerificationMessage) error {
	fields := []zap.Field{
		zap.Uint("user_id", msg.UserID),
		zap.Duration("expires_in", msg.ExpiresIn),
	}
	if s.showLink {
		fields = append(fields, zap.String("verification_url", msg.VerificationURL))
	}
	s.logger.Info("verification email not sent", fields...)
	return ErrNotDelivered
}
