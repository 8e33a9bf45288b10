// Package followup implements the daily follow-up reminder scan.
package followup

import (
	"context"
	"fmt"
	"time"

	"leaddesk_backend/internal/leads/repository"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadSource finds leads whose follow-up date falls inside a window.
type LeadSource interface {
	FindDueFollowUps(ctx context.Context, from, to time.Time) ([]repository.Lead, error)
}

// NotificationWriter creates reminder notifications and answers whether an
// identical one already exists.
type NotificationWriter interface {
	Exists(ctx context.Context, leadID, recipientID uuid.UUID, message string) (bool, error)
	Notify(ctx context.Context, recipientID, leadID uuid.UUID, message string) error
}

// AssigneeReader resolves an assignee's name and email for reminder emails.
type AssigneeReader interface {
	GetUserContact(ctx context.Context, id uuid.UUID) (name, email string, err error)
}

// EmailSender delivers reminder emails. Optional and best-effort.
type EmailSender interface {
	SendFollowUpReminder(ctx context.Context, toEmail, toName, leadName string, due time.Time) error
}

// Scanner emits one reminder notification per lead due today with an
// assignee. Reminders are deduplicated on the exact (lead, recipient,
// message) triple so repeated scans within the same day stay idempotent.
// The existence check and the insert are not atomic: concurrent scans can
// race and produce duplicates, which is accepted.
type Scanner struct {
	leads    LeadSource
	notifier NotificationWriter
	users    AssigneeReader
	email    EmailSender
	log      *logger.Logger
	now      func() time.Time
}

// New creates a follow-up scanner. users and email may be nil, in which case
// no reminder emails are sent.
func New(leads LeadSource, notifier NotificationWriter, users AssigneeReader, email EmailSender, log *logger.Logger) *Scanner {
	return &Scanner{
		leads:    leads,
		notifier: notifier,
		users:    users,
		email:    email,
		log:      log,
		now:      time.Now,
	}
}

// ReminderMessage is the notification text for a due lead. The dedup check
// keys on this exact text, so it deliberately contains no formatted time.
func ReminderMessage(leadName string) string {
	return fmt.Sprintf("Reminder: Follow-up for lead %s is scheduled for today.", leadName)
}

// Scan runs one pass over today's due leads. Today is the half-open window
// [local midnight, next midnight). Due leads without an assignee are
// silently skipped. Returns the number of reminders created.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	year, month, day := s.now().Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 1)

	leads, err := s.leads.FindDueFollowUps(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("find due follow-ups: %w", err)
	}

	created := 0
	for _, lead := range leads {
		if lead.AssignedTo == nil {
			continue
		}
		recipient := *lead.AssignedTo
		message := ReminderMessage(lead.Name)

		exists, err := s.notifier.Exists(ctx, lead.ID, recipient, message)
		if err != nil {
			s.log.Error("follow-up dedup check failed", "error", err, "leadId", lead.ID)
			continue
		}
		if exists {
			continue
		}

		if err := s.notifier.Notify(ctx, recipient, lead.ID, message); err != nil {
			s.log.Error("follow-up notification failed", "error", err, "leadId", lead.ID)
			continue
		}
		created++

		s.sendReminderEmail(ctx, recipient, lead)
	}

	s.log.Info("follow-up scan complete", "due", len(leads), "created", created)
	return created, nil
}

// sendReminderEmail is best-effort: any failure is logged and never aborts
// the scan.
func (s *Scanner) sendReminderEmail(ctx context.Context, recipient uuid.UUID, lead repository.Lead) {
	if s.email == nil || s.users == nil || lead.FollowUpDate == nil {
		return
	}

	name, email, err := s.users.GetUserContact(ctx, recipient)
	if err != nil || email == "" {
		return
	}

	if err := s.email.SendFollowUpReminder(ctx, email, name, lead.Name, *lead.FollowUpDate); err != nil {
		s.log.Error("follow-up reminder email failed", "error", err, "leadId", lead.ID, "recipientId", recipient)
	}
}
