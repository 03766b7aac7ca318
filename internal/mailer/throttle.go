package mailer

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledSender caps the rate at which messages reach the wrapped sender.
type ThrottledSender struct {
	next    Sender
	limiter *rate.Limiter
}

func NewThrottledSender(next Sender, perSecond float64, burst int) *ThrottledSender {
	return &ThrottledSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (s *ThrottledSender) SendVerification(ctx context.Context, msg VerificationMessage) error {
	// Wait fails fast when the deadline cannot accommodate the next token
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail throttle: %w", err)
	}
	return s.next.SendVerification(ctx, msg)
}
