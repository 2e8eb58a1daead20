// Package mail sends verification mails. An SMTP implementation backed by
// gomail covers production; a log-only one keeps local setups working
// without a mail server.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers a single verification mail.
type Mailer interface {
	SendVerification(ctx context.Context, to, username, link string) error
}

const (
	verificationSubject = "Verify your kharcha account"
	verificationBody    = "Hi %s,\n\nfollow this link to verify your account:\n\n%s\n\nIf you did not register, ignore this mail.\n"
)

// SMTPMailer sends mails through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, username, link string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", verificationSubject)
	msg.SetBody("text/plain", fmt.Sprintf(verificationBody, username, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification mail to %s: %w", to, err)
	}

	slog.InfoContext(ctx, "Verification mail sent", "to", to, "username", username)
	return nil
}

// LogMailer writes the verification link to the log instead of sending it.
type LogMailer struct{}

func (LogMailer) SendVerification(ctx context.Context, to, username, link string) error {
	slog.InfoContext(ctx, "Verification mail (log only)",
		"to", to,
		"username", username,
		"link", link)
	return nil
}
