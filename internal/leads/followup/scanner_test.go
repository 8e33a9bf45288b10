package followup

import (
	"context"
	"errors"
	"testing"
	"time"

	"leaddesk_backend/internal/leads/repository"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadSource struct {
	leads []repository.Lead
	from  time.Time
	to    time.Time
}

func (f *fakeLeadSource) FindDueFollowUps(_ context.Context, from, to time.Time) ([]repository.Lead, error) {
	f.from = from
	f.to = to
	return f.leads, nil
}

type sentNotification struct {
	leadID      uuid.UUID
	recipientID uuid.UUID
	message     string
}

type fakeNotificationWriter struct {
	sent      []sentNotification
	notifyErr error
	existsErr error
}

func (f *fakeNotificationWriter) Exists(_ context.Context, leadID, recipientID uuid.UUID, message string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, n := range f.sent {
		if n.leadID == leadID && n.recipientID == recipientID && n.message == message {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationWriter) Notify(_ context.Context, recipientID, leadID uuid.UUID, message string) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.sent = append(f.sent, sentNotification{leadID: leadID, recipientID: recipientID, message: message})
	return nil
}

type fakeContacts struct {
	email string
	err   error
}

func (f *fakeContacts) GetUserContact(_ context.Context, _ uuid.UUID) (string, string, error) {
	return "Jamie", f.email, f.err
}

type fakeEmailSender struct {
	sent int
	err  error
}

func (f *fakeEmailSender) SendFollowUpReminder(_ context.Context, _, _, _ string, _ time.Time) error {
	f.sent++
	return f.err
}

func dueLead(name string, assignee *uuid.UUID) repository.Lead {
	due := time.Now()
	return repository.Lead{
		ID:           uuid.New(),
		Name:         name,
		AssignedTo:   assignee,
		FollowUpDate: &due,
	}
}

func TestScanCreatesOneReminderPerDueLead(t *testing.T) {
	assignee := uuid.New()
	source := &fakeLeadSource{leads: []repository.Lead{
		dueLead("Acme Corp", &assignee),
		dueLead("Globex", &assignee),
	}}
	writer := &fakeNotificationWriter{}

	scanner := New(source, writer, nil, nil, logger.New("test"))
	created, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if created != 2 {
		t.Fatalf("expected 2 reminders, got %d", created)
	}
	want := "Reminder: Follow-up for lead Acme Corp is scheduled for today."
	if writer.sent[0].message != want {
		t.Fatalf("unexpected message: %q", writer.sent[0].message)
	}
}

func TestScanIsIdempotentAcrossRepeatedRuns(t *testing.T) {
	assignee := uuid.New()
	source := &fakeLeadSource{leads: []repository.Lead{dueLead("Acme Corp", &assignee)}}
	writer := &fakeNotificationWriter{}
	scanner := New(source, writer, nil, nil, logger.New("test"))

	first, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if first != 1 || second != 0 {
		t.Fatalf("expected 1 then 0 reminders, got %d then %d", first, second)
	}
	if len(writer.sent) != 1 {
		t.Fatalf("expected exactly one stored notification, got %d", len(writer.sent))
	}
}

func TestScanSkipsUnassignedLeads(t *testing.T) {
	assignee := uuid.New()
	source := &fakeLeadSource{leads: []repository.Lead{
		dueLead("Unowned", nil),
		dueLead("Owned", &assignee),
	}}
	writer := &fakeNotificationWriter{}
	scanner := New(source, writer, nil, nil, logger.New("test"))

	created, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected only the assigned lead to produce a reminder, got %d", created)
	}
}

func TestScanUsesLocalDayWindow(t *testing.T) {
	source := &fakeLeadSource{}
	scanner := New(source, &fakeNotificationWriter{}, nil, nil, logger.New("test"))
	scanner.now = func() time.Time {
		return time.Date(2026, 9, 15, 13, 45, 0, 0, time.Local)
	}

	if _, err := scanner.Scan(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}

	wantFrom := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	if !source.from.Equal(wantFrom) || !source.to.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Fatalf("expected window [%v, %v), got [%v, %v)", wantFrom, wantFrom.AddDate(0, 0, 1), source.from, source.to)
	}
}

func TestScanContinuesWhenNotifyFails(t *testing.T) {
	assignee := uuid.New()
	source := &fakeLeadSource{leads: []repository.Lead{dueLead("Acme Corp", &assignee)}}
	writer := &fakeNotificationWriter{notifyErr: errors.New("store down")}
	scanner := New(source, writer, nil, nil, logger.New("test"))

	created, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan should not fail on per-lead errors: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no reminders created, got %d", created)
	}
}

func TestScanEmailFailureDoesNotAffectReminderCount(t *testing.T) {
	assignee := uuid.New()
	source := &fakeLeadSource{leads: []repository.Lead{dueLead("Acme Corp", &assignee)}}
	writer := &fakeNotificationWriter{}
	email := &fakeEmailSender{err: errors.New("smtp down")}
	scanner := New(source, writer, &fakeContacts{email: "jamie@example.com"}, email, logger.New("test"))

	created, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected reminder despite email failure, got %d", created)
	}
	if email.sent != 1 {
		t.Fatalf("expected one email attempt, got %d", email.sent)
	}
}

func TestScanSkipsEmailWhenContactLookupFails(t *testing.T) {
	assignee := uuid.New()
	source := &fakeLeadSource{leads: []repository.Lead{dueLead("Acme Corp", &assignee)}}
	email := &fakeEmailSender{}
	scanner := New(source, &fakeNotificationWriter{}, &fakeContacts{err: errors.New("no such user")}, email, logger.New("test"))

	if _, err := scanner.Scan(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if email.sent != 0 {
		t.Fatalf("expected no email attempts, got %d", email.sent)
	}
}
