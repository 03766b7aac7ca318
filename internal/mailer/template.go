package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const verificationSubject = "Welcome to SoftWire India - Verify Your Email"

var verificationTmpl = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #667eea;">Welcome to SoftWire India, {{.FirstName}}!</h2>
  <p>Thank you for registering with us. Please verify your email address to complete your registration.</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.URL}}" style="background: #667eea; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify Email Address</a>
  </div>
  <p>If the button doesn't work, copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #667eea;">{{.URL}}</p>
  <hr style="margin: 30px 0;">
  <p style="color: #666; font-size: 12px;">This verification link will expire in {{.Expiry}}. If you didn't create this account, please ignore this email.</p>
</div>
`))

// renderVerification returns the subject, HTML body and plain-text body.
func renderVerification(msg VerificationMessage) (string, string, string, error) {
	expiry := humanDuration(msg.ExpiresIn)

	var html bytes.Buffer
	err := verificationTmpl.Execute(&html, struct {
		FirstName string
		URL       string
		Expiry    string
	}{msg.FirstName, msg.VerificationURL, expiry})
	if err != nil {
		return "", "", "", fmt.Errorf("render verification email: %w", err)
	}

	text := fmt.Sprintf("Welcome to SoftWire India, %s!\n\nVerify your email address by opening this link:\n%s\n\nThe link expires in %s.\n",
		msg.FirstName, msg.VerificationURL, expiry)

	return verificationSubject, html.String(), text, nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	default:
		return d.String()
	}
}
