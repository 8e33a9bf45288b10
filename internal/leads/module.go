// Package leads provides the lead management bounded context module.
package leads

import (
	apphttp "leaddesk_backend/internal/http"
	"leaddesk_backend/internal/leads/followup"
	"leaddesk_backend/internal/leads/handler"
	"leaddesk_backend/internal/leads/repository"
	"leaddesk_backend/internal/leads/service"
	"leaddesk_backend/platform/logger"
	"leaddesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module.
type Module struct {
	repo    *repository.Repository
	service *service.Service
	handler *handler.Handler
}

// NewModule wires the leads module. The recorder and notifier come from the
// activity and notification modules; both are consumed best-effort.
func NewModule(pool *pgxpool.Pool, recorder service.ActivityRecorder, notifier service.Notifier, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, recorder, notifier)

	return &Module{
		repo:    repo,
		service: svc,
		handler: handler.New(svc, val),
	}
}

// SetScanTrigger exposes the manual follow-up scan route. Must be called
// before route registration.
func (m *Module) SetScanTrigger(scan handler.ScanTrigger) {
	m.handler.SetScanTrigger(scan)
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// Service returns the lead lifecycle service.
func (m *Module) Service() *service.Service { return m.service }

// Repository returns the lead repository for use by the scheduler and dashboard.
func (m *Module) Repository() *repository.Repository { return m.repo }

// NewScanner builds a follow-up scanner on top of this module's repository.
func (m *Module) NewScanner(notifier followup.NotificationWriter, users followup.AssigneeReader, email followup.EmailSender, log *logger.Logger) *followup.Scanner {
	return followup.New(m.repo, notifier, users, email, log)
}

// RegisterRoutes mounts leads routes on the router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

var _ apphttp.Module = (*Module)(nil)
