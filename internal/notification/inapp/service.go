package inapp

import (
	"context"
	"errors"

	"leaddesk_backend/internal/notification/sse"
	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
)

// Service creates and manages in-app notifications.
type Service struct {
	store Store
	sse   *sse.Service
	log   *logger.Logger
}

// NewService creates a notification service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// SetSSE injects the SSE service used to push notifications to connected users.
func (s *Service) SetSSE(sseSvc *sse.Service) {
	s.sse = sseSvc
}

// SendParams describes a notification to deliver.
type SendParams struct {
	RecipientID uuid.UUID
	LeadID      *uuid.UUID
	Message     string
}

// Send persists the notification and pushes it via SSE if the recipient is
// online. Persistence failures are logged; callers treat delivery as
// best-effort and never fail their primary operation on the returned error.
func (s *Service) Send(ctx context.Context, p SendParams) (Notification, error) {
	if p.RecipientID == uuid.Nil {
		return Notification{}, apperr.Validation("recipientId is required")
	}
	if p.Message == "" {
		return Notification{}, apperr.Validation("message is required")
	}

	notif, err := s.store.Create(ctx, CreateParams{
		RecipientID: p.RecipientID,
		LeadID:      p.LeadID,
		Message:     p.Message,
	})
	if err != nil {
		s.log.Error("failed to persist notification", "error", err, "recipientId", p.RecipientID)
		return Notification{}, apperr.Wrap(apperr.KindInternal, "create notification failed", err)
	}

	if s.sse != nil {
		s.sse.Publish(p.RecipientID, sse.Event{
			Type:    sse.EventNotification,
			Message: notif.Message,
			Data:    notif,
		})
	}

	return notif, nil
}

// Notify adapts Send to the lifecycle's best-effort notifier contract.
func (s *Service) Notify(ctx context.Context, recipientID, leadID uuid.UUID, message string) error {
	_, err := s.Send(ctx, SendParams{RecipientID: recipientID, LeadID: &leadID, Message: message})
	return err
}

// Exists reports whether a notification with this exact (lead, recipient,
// message) triple has already been created. Used by the follow-up scanner to
// avoid duplicate reminders.
func (s *Service) Exists(ctx context.Context, leadID, recipientID uuid.UUID, message string) (bool, error) {
	exists, err := s.store.Exists(ctx, leadID, recipientID, message)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "notification lookup failed", err)
	}
	return exists, nil
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, recipientID uuid.UUID, page, pageSize int) ([]Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.store.List(ctx, recipientID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list notifications failed", err)
	}
	return items, total, nil
}

// CountUnread returns the recipient's unread count.
func (s *Service) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	count, err := s.store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count unread notifications failed", err)
	}
	return count, nil
}

// MarkRead flips read to true for a notification owned by recipientID.
// A notification belonging to another user surfaces as not found, never as
// forbidden, so existence is not leaked.
func (s *Service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) (Notification, error) {
	notif, err := s.store.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Notification{}, apperr.NotFound("notification not found")
		}
		return Notification{}, apperr.Wrap(apperr.KindInternal, "mark notification read failed", err)
	}
	return notif, nil
}

// MarkAllRead flips read to true for all of the recipient's notifications.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if err := s.store.MarkAllRead(ctx, recipientID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "mark all notifications read failed", err)
	}
	return nil
}
