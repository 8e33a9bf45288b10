// Package service implements the lead lifecycle: create, update, stage
// changes, deletion and role-scoped search, together with the audit and
// notification side effects each mutation produces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leaddesk_backend/internal/leads/domain"
	"leaddesk_backend/internal/leads/repository"
	"leaddesk_backend/internal/leads/transport"
	"leaddesk_backend/internal/roles"
	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/phone"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead not found"

// ActivityRecorder appends audit entries. Recording is best-effort: the
// lifecycle ignores returned errors so a failed audit write never fails the
// lead mutation that triggered it.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID uuid.UUID, leadID *uuid.UUID, action string) error
}

// Notifier delivers in-app notifications. Same best-effort contract as
// ActivityRecorder.
type Notifier interface {
	Notify(ctx context.Context, recipientID, leadID uuid.UUID, message string) error
}

// Service orchestrates the lead lifecycle.
type Service struct {
	repo     repository.LeadRepository
	recorder ActivityRecorder
	notifier Notifier
}

// New creates a lead lifecycle service.
func New(repo repository.LeadRepository, recorder ActivityRecorder, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		notifier: notifier,
	}
}

// Create persists a new lead owned by actorID, records a "Lead created"
// audit entry, and notifies the assignee when one was supplied.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actorID uuid.UUID) (repository.Lead, error) {
	status := req.Status
	if status == "" {
		status = string(domain.StageNew)
	}

	params := repository.CreateLeadParams{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      phone.NormalizeE164(req.Phone),
		Company:    req.Company,
		Source:     req.Source,
		Status:     status,
		Stage:      string(domain.StageNew),
		Notes:      req.Notes,
		AssignedTo: req.AssignedTo.Value,
		CreatedBy:  actorID,
	}
	if req.FollowUpDate.Set {
		params.FollowUpDate = req.FollowUpDate.Value
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "create lead failed", err)
	}

	_ = s.recorder.Record(ctx, actorID, &lead.ID, "Lead created")

	if lead.AssignedTo != nil {
		_ = s.notifier.Notify(ctx, *lead.AssignedTo, lead.ID,
			fmt.Sprintf("You have been assigned a new lead: %s", lead.Name))
	}

	return lead, nil
}

// GetByID returns a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "get lead failed", err)
	}
	return lead, nil
}

// Update applies a partial update. For each of status, assignee, notes and
// follow-up date that is supplied and differs from the stored value, exactly
// one audit entry describing that field's transition is recorded. Diffs are
// taken against the lead's state before any change in this call. An assignee
// change additionally notifies the new assignee.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest, actorID uuid.UUID) (repository.Lead, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "get lead failed", err)
	}

	params := repository.UpdateLeadParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Source:  req.Source,
		Status:  req.Status,
		Notes:   req.Notes,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.FollowUpDate.Set {
		params.FollowUpDate = req.FollowUpDate.Value
		params.FollowUpDateSet = true
	}
	if req.AssignedTo.Set {
		params.AssignedTo = req.AssignedTo.Value
		params.AssignedToSet = true
	}

	// Audit actions are derived from the pre-update snapshot, one per
	// changed field, before any change is applied.
	actions := make([]string, 0, 4)
	if req.Status != nil && *req.Status != current.Status {
		actions = append(actions, fmt.Sprintf("Status changed from %s to %s", current.Status, *req.Status))
	}
	assigneeChanged := req.AssignedTo.Set && !equalUUIDPtr(current.AssignedTo, req.AssignedTo.Value)
	if assigneeChanged {
		actions = append(actions, fmt.Sprintf("Assignee changed from %s to %s",
			formatAssignee(current.AssignedTo), formatAssignee(req.AssignedTo.Value)))
	}
	if req.Notes != nil && *req.Notes != current.Notes {
		actions = append(actions, "Notes updated")
	}
	if req.FollowUpDate.Set && !equalTimePtr(current.FollowUpDate, req.FollowUpDate.Value) {
		actions = append(actions, fmt.Sprintf("Follow-up date changed from %s to %s",
			formatFollowUp(current.FollowUpDate), formatFollowUp(req.FollowUpDate.Value)))
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "update lead failed", err)
	}

	for _, action := range actions {
		_ = s.recorder.Record(ctx, actorID, &id, action)
	}

	if assigneeChanged && req.AssignedTo.Value != nil {
		_ = s.notifier.Notify(ctx, *req.AssignedTo.Value, lead.ID,
			fmt.Sprintf("You have been assigned lead: %s", lead.Name))
	}

	return lead, nil
}

// UpdateStage sets the pipeline stage. Any stage in the enum may follow any
// other; a value outside the enum is rejected before any state change. The
// transition is always recorded, including OLD == NEW.
func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, newStage string, actorID uuid.UUID) (repository.Lead, error) {
	stage, ok := domain.ParseStage(newStage)
	if !ok {
		return repository.Lead{}, apperr.Validation(fmt.Sprintf("invalid stage %q", newStage))
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "get lead failed", err)
	}

	lead, err := s.repo.UpdateStage(ctx, id, string(stage))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "update lead stage failed", err)
	}

	_ = s.recorder.Record(ctx, actorID, &id,
		fmt.Sprintf("Stage changed from %s to %s", current.Stage, stage))

	return lead, nil
}

// Delete hard-removes a lead. Only admins may delete; the audit entry keeps
// the removed lead's id as a weak reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return apperr.Wrap(apperr.KindInternal, "get lead failed", err)
	}

	if actorRole != roles.Admin {
		return apperr.Forbidden("only admins can delete leads")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return apperr.Wrap(apperr.KindInternal, "delete lead failed", err)
	}

	_ = s.recorder.Record(ctx, actorID, &id, "Lead deleted")

	return nil
}

// Search returns leads matching the filters, ordered ascending by follow-up
// date. Callers without an elevated role are always scoped to their own
// assignments, regardless of any assignedTo filter they supply.
func (s *Service) Search(ctx context.Context, req transport.SearchLeadsRequest, actorID uuid.UUID, actorRole string) ([]repository.Lead, error) {
	filters := repository.SearchFilters{
		Name:    req.Name,
		Company: req.Company,
		Status:  req.Status,
		Stage:   req.Stage,
		Source:  req.Source,
	}

	if roles.Elevated(actorRole) {
		if req.AssignedTo != "" {
			assignee, err := uuid.Parse(req.AssignedTo)
			if err != nil {
				return nil, apperr.Validation("invalid assignedTo filter")
			}
			filters.AssignedTo = &assignee
		}
	} else {
		filters.AssignedTo = &actorID
	}

	if req.FollowUpDate != "" {
		day, err := time.ParseInLocation("2006-01-02", req.FollowUpDate, time.Local)
		if err != nil {
			return nil, apperr.Validation("invalid followUpDate filter")
		}
		next := day.AddDate(0, 0, 1)
		filters.FollowUpFrom = &day
		filters.FollowUpTo = &next
	}

	leads, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search leads failed", err)
	}
	return leads, nil
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatAssignee(id *uuid.UUID) string {
	if id == nil {
		return "unassigned"
	}
	return id.String()
}

func formatFollowUp(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.Format("2006-01-02")
}
