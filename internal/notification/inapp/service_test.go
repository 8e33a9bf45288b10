package inapp

import (
	"context"
	"testing"
	"time"

	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
)

type memStore struct {
	items map[uuid.UUID]Notification
}

func newMemStore() *memStore {
	return &memStore{items: make(map[uuid.UUID]Notification)}
}

func (m *memStore) Create(_ context.Context, p CreateParams) (Notification, error) {
	n := Notification{
		ID:          uuid.New(),
		RecipientID: p.RecipientID,
		LeadID:      p.LeadID,
		Message:     p.Message,
		Timestamp:   time.Now(),
	}
	m.items[n.ID] = n
	return n, nil
}

func (m *memStore) List(_ context.Context, recipientID uuid.UUID, limit, offset int) ([]Notification, int, error) {
	all := make([]Notification, 0)
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			all = append(all, n)
		}
	}
	total := len(all)
	if offset > len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memStore) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.items {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memStore) MarkRead(_ context.Context, recipientID, notificationID uuid.UUID) (Notification, error) {
	n, ok := m.items[notificationID]
	if !ok || n.RecipientID != recipientID {
		return Notification{}, ErrNotFound
	}
	n.Read = true
	m.items[notificationID] = n
	return n, nil
}

func (m *memStore) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	for id, n := range m.items {
		if n.RecipientID == recipientID {
			n.Read = true
			m.items[id] = n
		}
	}
	return nil
}

func (m *memStore) Exists(_ context.Context, leadID, recipientID uuid.UUID, message string) (bool, error) {
	for _, n := range m.items {
		if n.RecipientID == recipientID && n.Message == message &&
			n.LeadID != nil && *n.LeadID == leadID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store, logger.New("test")), store
}

func TestSendRejectsMissingRecipientAndMessage(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Send(context.Background(), SendParams{Message: "hi"}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing recipient, got %v", err)
	}
	if _, err := svc.Send(context.Background(), SendParams{RecipientID: uuid.New()}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing message, got %v", err)
	}
}

func TestNotifyPersistsWithLeadReference(t *testing.T) {
	svc, store := newTestService()
	recipient := uuid.New()
	leadID := uuid.New()

	if err := svc.Notify(context.Background(), recipient, leadID, "You have been assigned lead: Acme Corp"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	exists, err := svc.Exists(context.Background(), leadID, recipient, "You have been assigned lead: Acme Corp")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected the notification to be findable by its triple")
	}
	if len(store.items) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(store.items))
	}
}

func TestExistsRequiresExactTripleMatch(t *testing.T) {
	svc, _ := newTestService()
	recipient := uuid.New()
	leadID := uuid.New()

	if err := svc.Notify(context.Background(), recipient, leadID, "message A"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	cases := []struct {
		leadID      uuid.UUID
		recipientID uuid.UUID
		message     string
	}{
		{uuid.New(), recipient, "message A"},
		{leadID, uuid.New(), "message A"},
		{leadID, recipient, "message B"},
	}
	for _, tc := range cases {
		exists, err := svc.Exists(context.Background(), tc.leadID, tc.recipientID, tc.message)
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if exists {
			t.Fatalf("expected no match for altered triple %+v", tc)
		}
	}
}

func TestMarkReadOtherUsersNotificationReturnsNotFound(t *testing.T) {
	svc, store := newTestService()
	owner := uuid.New()

	n, err := store.Create(context.Background(), CreateParams{RecipientID: owner, Message: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.MarkRead(context.Background(), uuid.New(), n.ID)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for another user's notification, got %v", err)
	}
	if store.items[n.ID].Read {
		t.Fatal("notification must stay unread after rejected mark")
	}
}

func TestMarkReadFlipsOwnNotification(t *testing.T) {
	svc, store := newTestService()
	owner := uuid.New()

	n, err := store.Create(context.Background(), CreateParams{RecipientID: owner, Message: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.MarkRead(context.Background(), owner, n.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !updated.Read {
		t.Fatal("expected notification to be marked read")
	}

	count, err := svc.CountUnread(context.Background(), owner)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero unread, got %d", count)
	}
}

func TestListClampsPageSize(t *testing.T) {
	svc, _ := newTestService()
	recipient := uuid.New()

	for i := 0; i < 3; i++ {
		if err := svc.Notify(context.Background(), recipient, uuid.New(), "msg"); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	items, total, err := svc.List(context.Background(), recipient, 0, -5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected all 3 notifications with defaulted paging, got %d of %d", len(items), total)
	}
}
