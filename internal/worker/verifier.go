// Package worker turns queued verification messages into outgoing mails.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kharcha/internal/amqp"
	"kharcha/internal/mail"
)

// VerificationWorker consumes verification messages and mails the account
// holder a redemption link built from the server's base URL.
type VerificationWorker struct {
	mailer  mail.Mailer
	baseURL string
}

func NewVerificationWorker(mailer mail.Mailer, baseURL string) *VerificationWorker {
	return &VerificationWorker{
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// HandleVerificationMessage processes one queued message. Errors propagate
// to the consumer, which requeues the delivery.
func (w *VerificationWorker) HandleVerificationMessage(ctx context.Context, msg *amqp.VerificationMessage) error {
	if msg.Email == "" {
		slog.WarnContext(ctx, "Verification message without email address, dropping",
			"username", msg.Username)
		return nil
	}
	if msg.Token == "" {
		slog.WarnContext(ctx, "Verification message without token, dropping",
			"username", msg.Username)
		return nil
	}

	link := w.VerificationLink(msg.Token)
	if err := w.mailer.SendVerification(ctx, msg.Email, msg.Username, link); err != nil {
		return fmt.Errorf("mail verification for %s: %w", msg.Username, err)
	}

	slog.InfoContext(ctx, "Processed verification message", "username", msg.Username)
	return nil
}

// VerificationLink builds the redemption URL for a token.
func (w *VerificationWorker) VerificationLink(token string) string {
	return w.baseURL + "/verify/" + token
}
