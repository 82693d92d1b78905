// Package mailer is the outbound-email boundary. Delivery itself is handled
// elsewhere; the default implementation just logs the message.
package mailer

import (
	"context"
	"log"
)

type Mailer interface {
	SendPasswordResetOTP(ctx context.Context, email, code string) error
}

// LogMailer writes outbound mail to the process log. Used when no real
// delivery backend is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordResetOTP(_ context.Context, email, code string) error {
	log.Printf("password reset OTP for %s: %s", email, code)
	return nil
}
