package activity

import (
	"context"

	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
)

// Service records and reads audit entries.
type Service struct {
	store Store
	log   *logger.Logger
}

// NewService creates an activity service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Record appends one audit entry. Store failures are logged and swallowed:
// audit writes are best-effort and must never abort the business operation
// that triggered them. Only invalid input is reported back to the caller.
func (s *Service) Record(ctx context.Context, actorID uuid.UUID, leadID *uuid.UUID, action string) error {
	if actorID == uuid.Nil {
		return apperr.Validation("actorId is required")
	}
	if action == "" {
		return apperr.Validation("action is required")
	}

	if _, err := s.store.Insert(ctx, actorID, leadID, action); err != nil {
		s.log.Error("failed to persist activity entry", "error", err, "action", action, "actorId", actorID)
		return nil
	}

	return nil
}

// ListByLead returns a lead's audit trail, newest first.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Entry, error) {
	entries, err := s.store.ListByLead(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list activities failed", err)
	}
	return entries, nil
}
