// Package email delivers outbound mail for follow-up reminders.
package email

import (
	"context"
	"time"

	"leaddesk_backend/platform/config"
)

// Sender delivers reminder emails. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendFollowUpReminder(ctx context.Context, toEmail, toName, leadName string, due time.Time) error
}

// NewSender returns the SMTP sender when email is enabled, otherwise a
// no-op sender so callers never have to nil-check.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender discards all mail. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendFollowUpReminder(_ context.Context, _, _, _ string, _ time.Time) error {
	return nil
}
