package dashboard

import (
	"context"
	"time"

	"leaddesk_backend/internal/roles"
	"leaddesk_backend/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Overview is the aggregated dashboard payload.
type Overview struct {
	TotalLeads        int64           `json:"totalLeads"`
	ByStatus          []StatCount     `json:"byStatus"`
	BySource          []StatCount     `json:"bySource"`
	ByEmployee        []EmployeeCount `json:"byEmployee,omitempty"`
	FollowUpsDueToday int64           `json:"followUpsDueToday"`
}

// Service computes dashboard overviews scoped by role.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a dashboard service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Overview builds the dashboard for the given actor. Employees see only
// their own leads; managers and admins see everything including the
// per-employee breakdown.
func (s *Service) Overview(ctx context.Context, actorID uuid.UUID, actorRole string) (*Overview, error) {
	const op = "dashboard.Overview"

	var scope *uuid.UUID
	elevated := roles.Elevated(actorRole)
	if !elevated {
		scope = &actorID
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var result Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.store.CountLeads(gctx, scope)
		result.TotalLeads = total
		return err
	})
	g.Go(func() error {
		byStatus, err := s.store.CountByStatus(gctx, scope)
		result.ByStatus = byStatus
		return err
	})
	g.Go(func() error {
		bySource, err := s.store.CountBySource(gctx, scope)
		result.BySource = bySource
		return err
	})
	g.Go(func() error {
		due, err := s.store.CountFollowUpsDue(gctx, scope, dayStart, dayEnd)
		result.FollowUpsDueToday = due
		return err
	})
	if elevated {
		g.Go(func() error {
			byEmployee, err := s.store.CountByEmployee(gctx)
			result.ByEmployee = byEmployee
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to build dashboard", err).WithOp(op)
	}
	return &result, nil
}
