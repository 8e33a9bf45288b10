package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"leaddesk_backend/internal/leads/repository"
	"leaddesk_backend/internal/leads/transport"
	"leaddesk_backend/internal/roles"
	"leaddesk_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads map[uuid.UUID]repository.Lead

	searchFilters *repository.SearchFilters
	updateErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeRepo) put(lead repository.Lead) {
	f.leads[lead.ID] = lead
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		Phone:        params.Phone,
		Company:      params.Company,
		Source:       params.Source,
		Status:       params.Status,
		Stage:        params.Stage,
		Notes:        params.Notes,
		FollowUpDate: params.FollowUpDate,
		AssignedTo:   params.AssignedTo,
		CreatedBy:    params.CreatedBy,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	if f.updateErr != nil {
		return repository.Lead{}, f.updateErr
	}
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		lead.Name = *params.Name
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.Notes != nil {
		lead.Notes = *params.Notes
	}
	if params.FollowUpDateSet {
		lead.FollowUpDate = params.FollowUpDate
	}
	if params.AssignedToSet {
		lead.AssignedTo = params.AssignedTo
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStage(_ context.Context, id uuid.UUID, stage string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Stage = stage
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) Search(_ context.Context, filters repository.SearchFilters) ([]repository.Lead, error) {
	f.searchFilters = &filters
	return nil, nil
}

func (f *fakeRepo) FindDueFollowUps(_ context.Context, _, _ time.Time) ([]repository.Lead, error) {
	return nil, nil
}

type fakeRecorder struct {
	actions []string
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, _ uuid.UUID, _ *uuid.UUID, action string) error {
	f.actions = append(f.actions, action)
	return f.err
}

type fakeNotifier struct {
	messages   []string
	recipients []uuid.UUID
	err        error
}

func (f *fakeNotifier) Notify(_ context.Context, recipientID, _ uuid.UUID, message string) error {
	f.messages = append(f.messages, message)
	f.recipients = append(f.recipients, recipientID)
	return f.err
}

func newService() (*Service, *fakeRepo, *fakeRecorder, *fakeNotifier) {
	repo := newFakeRepo()
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	return New(repo, recorder, notifier), repo, recorder, notifier
}

func seedLead(repo *fakeRepo, mutate func(*repository.Lead)) repository.Lead {
	lead := repository.Lead{
		ID:        uuid.New(),
		Name:      "Acme Corp",
		Phone:     "+15550001111",
		Status:    "New",
		Stage:     "New",
		CreatedBy: uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if mutate != nil {
		mutate(&lead)
	}
	repo.put(lead)
	return lead
}

func TestCreateRecordsAuditAndNotifiesAssignee(t *testing.T) {
	svc, _, recorder, notifier := newService()
	assignee := uuid.New()

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:       "Acme Corp",
		Phone:      "+15550001111",
		AssignedTo: transport.OptionalUUID{Value: &assignee, Set: true},
	}, uuid.New())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if lead.Status != "New" || lead.Stage != "New" {
		t.Fatalf("expected defaults New/New, got %s/%s", lead.Status, lead.Stage)
	}
	if len(recorder.actions) != 1 || recorder.actions[0] != "Lead created" {
		t.Fatalf("expected single 'Lead created' entry, got %v", recorder.actions)
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != "You have been assigned a new lead: Acme Corp" {
		t.Fatalf("unexpected notifications: %v", notifier.messages)
	}
	if notifier.recipients[0] != assignee {
		t.Fatal("notification went to the wrong recipient")
	}
}

func TestCreateWithoutAssigneeSendsNoNotification(t *testing.T) {
	svc, _, _, notifier := newService()

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:  "Acme Corp",
		Phone: "+15550001111",
	}, uuid.New()); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(notifier.messages) != 0 {
		t.Fatalf("expected no notifications, got %v", notifier.messages)
	}
}

func TestCreateSucceedsWhenSideEffectsFail(t *testing.T) {
	svc, _, recorder, notifier := newService()
	recorder.err = errors.New("audit store down")
	notifier.err = errors.New("notification store down")
	assignee := uuid.New()

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:       "Acme Corp",
		Phone:      "+15550001111",
		AssignedTo: transport.OptionalUUID{Value: &assignee, Set: true},
	}, uuid.New()); err != nil {
		t.Fatalf("expected create to succeed despite side-effect failures, got %v", err)
	}
}

func TestUpdateRecordsOneEntryPerChangedField(t *testing.T) {
	svc, repo, recorder, _ := newService()
	lead := seedLead(repo, nil)

	status := "Contacted"
	notes := "called, left voicemail"
	if _, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{
		Status: &status,
		Notes:  &notes,
	}, uuid.New()); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(recorder.actions) != 2 {
		t.Fatalf("expected 2 audit entries, got %d: %v", len(recorder.actions), recorder.actions)
	}
	if recorder.actions[0] != "Status changed from New to Contacted" {
		t.Fatalf("unexpected status entry: %q", recorder.actions[0])
	}
	if recorder.actions[1] != "Notes updated" {
		t.Fatalf("unexpected notes entry: %q", recorder.actions[1])
	}
}

func TestUpdateUnchangedFieldsProduceNoEntries(t *testing.T) {
	svc, repo, recorder, _ := newService()
	lead := seedLead(repo, func(l *repository.Lead) {
		l.Status = "Contacted"
		l.Notes = "as before"
	})

	status := "Contacted"
	notes := "as before"
	name := "Renamed Corp"
	if _, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{
		Name:   &name,
		Status: &status,
		Notes:  &notes,
	}, uuid.New()); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(recorder.actions) != 0 {
		t.Fatalf("expected no audit entries for unchanged fields, got %v", recorder.actions)
	}
}

func TestUpdateAssigneeDiffUsesPreUpdateSnapshot(t *testing.T) {
	svc, repo, recorder, notifier := newService()
	oldAssignee := uuid.New()
	lead := seedLead(repo, func(l *repository.Lead) {
		l.AssignedTo = &oldAssignee
	})

	newAssignee := uuid.New()
	if _, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{
		AssignedTo: transport.OptionalUUID{Value: &newAssignee, Set: true},
	}, uuid.New()); err != nil {
		t.Fatalf("update: %v", err)
	}

	want := fmt.Sprintf("Assignee changed from %s to %s", oldAssignee, newAssignee)
	if len(recorder.actions) != 1 || recorder.actions[0] != want {
		t.Fatalf("expected %q, got %v", want, recorder.actions)
	}
	if len(notifier.recipients) != 1 || notifier.recipients[0] != newAssignee {
		t.Fatalf("expected notification to new assignee, got %v", notifier.recipients)
	}
}

func TestUpdateUnassignRecordsEntryWithoutNotification(t *testing.T) {
	svc, repo, recorder, notifier := newService()
	oldAssignee := uuid.New()
	lead := seedLead(repo, func(l *repository.Lead) {
		l.AssignedTo = &oldAssignee
	})

	if _, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{
		AssignedTo: transport.OptionalUUID{Value: nil, Set: true},
	}, uuid.New()); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(recorder.actions) != 1 || !strings.HasSuffix(recorder.actions[0], "to unassigned") {
		t.Fatalf("expected unassignment entry, got %v", recorder.actions)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("expected no notification on unassignment, got %v", notifier.messages)
	}
}

func TestUpdateFollowUpDateEntryFormatsDates(t *testing.T) {
	svc, repo, recorder, _ := newService()
	lead := seedLead(repo, nil)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	if _, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{
		FollowUpDate: transport.OptionalTime{Value: &due, Set: true},
	}, uuid.New()); err != nil {
		t.Fatalf("update: %v", err)
	}

	want := "Follow-up date changed from none to 2026-09-15"
	if len(recorder.actions) != 1 || recorder.actions[0] != want {
		t.Fatalf("expected %q, got %v", want, recorder.actions)
	}
}

func TestUpdateMissingLeadSkipsSideEffects(t *testing.T) {
	svc, _, recorder, notifier := newService()

	status := "Contacted"
	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateLeadRequest{
		Status: &status,
	}, uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if len(recorder.actions) != 0 || len(notifier.messages) != 0 {
		t.Fatal("expected no side effects for a failed update")
	}
}

func TestUpdateStageRejectsUnknownStageBeforeLookup(t *testing.T) {
	svc, _, recorder, _ := newService()

	// Unknown stage on a nonexistent lead must surface as validation, not
	// not-found: the enum check runs first.
	_, err := svc.UpdateStage(context.Background(), uuid.New(), "Bogus", uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(recorder.actions) != 0 {
		t.Fatalf("expected no audit entries, got %v", recorder.actions)
	}
}

func TestUpdateStageRecordsSameStageTransition(t *testing.T) {
	svc, repo, recorder, _ := newService()
	lead := seedLead(repo, func(l *repository.Lead) {
		l.Stage = "Contacted"
	})

	if _, err := svc.UpdateStage(context.Background(), lead.ID, "Contacted", uuid.New()); err != nil {
		t.Fatalf("update stage: %v", err)
	}

	want := "Stage changed from Contacted to Contacted"
	if len(recorder.actions) != 1 || recorder.actions[0] != want {
		t.Fatalf("expected %q, got %v", want, recorder.actions)
	}
}

func TestUpdateStageAllowsBackwardTransition(t *testing.T) {
	svc, repo, _, _ := newService()
	lead := seedLead(repo, func(l *repository.Lead) {
		l.Stage = "Won"
	})

	updated, err := svc.UpdateStage(context.Background(), lead.ID, "Negotiation", uuid.New())
	if err != nil {
		t.Fatalf("update stage: %v", err)
	}
	if updated.Stage != "Negotiation" {
		t.Fatalf("expected stage Negotiation, got %s", updated.Stage)
	}
}

func TestDeleteMissingLeadReturnsNotFoundBeforeRoleCheck(t *testing.T) {
	svc, _, _, _ := newService()

	// Even a non-admin gets not-found for a missing lead; the existence
	// check runs before the role check.
	err := svc.Delete(context.Background(), uuid.New(), uuid.New(), roles.Employee)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo, _, _ := newService()
	lead := seedLead(repo, nil)

	for _, role := range []string{roles.Manager, roles.Employee} {
		err := svc.Delete(context.Background(), lead.ID, uuid.New(), role)
		if apperr.GetKind(err) != apperr.KindForbidden {
			t.Fatalf("role %s: expected forbidden, got %v", role, err)
		}
	}

	if _, err := repo.GetByID(context.Background(), lead.ID); err != nil {
		t.Fatal("lead must survive rejected delete attempts")
	}
}

func TestDeleteRecordsAuditEntry(t *testing.T) {
	svc, repo, recorder, _ := newService()
	lead := seedLead(repo, nil)

	if err := svc.Delete(context.Background(), lead.ID, uuid.New(), roles.Admin); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(recorder.actions) != 1 || recorder.actions[0] != "Lead deleted" {
		t.Fatalf("expected 'Lead deleted' entry, got %v", recorder.actions)
	}
	if _, err := repo.GetByID(context.Background(), lead.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("lead should be gone after delete")
	}
}

func TestSearchForcesEmployeeScopeToOwnLeads(t *testing.T) {
	svc, repo, _, _ := newService()
	actorID := uuid.New()
	other := uuid.New()

	if _, err := svc.Search(context.Background(), transport.SearchLeadsRequest{
		AssignedTo: other.String(),
	}, actorID, roles.Employee); err != nil {
		t.Fatalf("search: %v", err)
	}

	if repo.searchFilters.AssignedTo == nil || *repo.searchFilters.AssignedTo != actorID {
		t.Fatalf("expected employee search scoped to own id, got %v", repo.searchFilters.AssignedTo)
	}
}

func TestSearchManagerMayFilterByAssignee(t *testing.T) {
	svc, repo, _, _ := newService()
	other := uuid.New()

	if _, err := svc.Search(context.Background(), transport.SearchLeadsRequest{
		AssignedTo: other.String(),
	}, uuid.New(), roles.Manager); err != nil {
		t.Fatalf("search: %v", err)
	}

	if repo.searchFilters.AssignedTo == nil || *repo.searchFilters.AssignedTo != other {
		t.Fatalf("expected manager filter to be honored, got %v", repo.searchFilters.AssignedTo)
	}
}

func TestSearchFollowUpDateExpandsToLocalDayWindow(t *testing.T) {
	svc, repo, _, _ := newService()

	if _, err := svc.Search(context.Background(), transport.SearchLeadsRequest{
		FollowUpDate: "2026-09-15",
	}, uuid.New(), roles.Admin); err != nil {
		t.Fatalf("search: %v", err)
	}

	wantFrom := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	wantTo := wantFrom.AddDate(0, 0, 1)
	if !repo.searchFilters.FollowUpFrom.Equal(wantFrom) || !repo.searchFilters.FollowUpTo.Equal(wantTo) {
		t.Fatalf("expected [%v, %v), got [%v, %v)", wantFrom, wantTo,
			repo.searchFilters.FollowUpFrom, repo.searchFilters.FollowUpTo)
	}
}
