package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	entries   []Entry
	insertErr error
}

func (f *fakeStore) Insert(_ context.Context, actorID uuid.UUID, leadID *uuid.UUID, action string) (Entry, error) {
	if f.insertErr != nil {
		return Entry{}, f.insertErr
	}
	e := Entry{ID: uuid.New(), ActorID: actorID, LeadID: leadID, Action: action, Timestamp: time.Now()}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeStore) ListByLead(_ context.Context, leadID uuid.UUID) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range f.entries {
		if e.LeadID != nil && *e.LeadID == leadID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestRecordValidatesInput(t *testing.T) {
	svc := NewService(&fakeStore{}, logger.New("test"))
	leadID := uuid.New()

	if err := svc.Record(context.Background(), uuid.Nil, &leadID, "Lead created"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing actor, got %v", err)
	}
	if err := svc.Record(context.Background(), uuid.New(), &leadID, ""); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for empty action, got %v", err)
	}
}

func TestRecordSwallowsStoreFailures(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("database down")}
	svc := NewService(store, logger.New("test"))
	leadID := uuid.New()

	if err := svc.Record(context.Background(), uuid.New(), &leadID, "Lead created"); err != nil {
		t.Fatalf("store failure must not surface to the caller, got %v", err)
	}
}

func TestRecordAcceptsNilLeadReference(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, logger.New("test"))

	if err := svc.Record(context.Background(), uuid.New(), nil, "Lead deleted"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(store.entries) != 1 || store.entries[0].LeadID != nil {
		t.Fatalf("expected one entry with nil lead reference, got %+v", store.entries)
	}
}

func TestListByLeadReturnsOnlyThatLead(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, logger.New("test"))
	leadA := uuid.New()
	leadB := uuid.New()

	_ = svc.Record(context.Background(), uuid.New(), &leadA, "Lead created")
	_ = svc.Record(context.Background(), uuid.New(), &leadB, "Lead created")
	_ = svc.Record(context.Background(), uuid.New(), &leadA, "Notes updated")

	entries, err := svc.ListByLead(context.Background(), leadA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for lead A, got %d", len(entries))
	}
}
