// Package mail sends transactional email for the application.
package mail

import (
	"fmt"

	"inkwell/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers transactional messages.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// SMTPMailer sends mail over SMTP using gomail.
type SMTPMailer struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string
	ttlMinutes  int
}

// NewSMTPMailer builds a mailer from the application configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		from:        cfg.SMTPFrom,
		frontendURL: cfg.FrontendURL,
		ttlMinutes:  cfg.ResetTokenTTLMins,
	}
}

// SendPasswordReset sends the reset link for the given token.
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	if m.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/html", resetBody(link, m.ttlMinutes))

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send password reset mail: %w", err)
	}
	return nil
}

func resetBody(link string, ttlMinutes int) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Password reset requested</h2>
  <p>Someone asked to reset the password for your account. If that was you, click the button below.</p>
  <p style="margin:24px 0">
    <a href="%s" style="background:#1a73e8;color:#fff;padding:12px 20px;border-radius:6px;text-decoration:none">Reset password</a>
  </p>
  <p>This link expires in %d minutes and can be used once.</p>
  <p>If you did not request this, you can safely ignore this email.</p>
</div>`, link, ttlMinutes)
}
