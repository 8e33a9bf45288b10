package activity

import (
	apphttp "leaddesk_backend/internal/http"
	"leaddesk_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the activity log bounded context.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule wires the activity log module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), log)
	return &Module{
		service: svc,
		handler: NewHandler(svc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "activity" }

// Service returns the activity service for use by other modules.
func (m *Module) Service() *Service { return m.service }

// RegisterRoutes mounts activity routes on the router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/activities"))
}

var _ apphttp.Module = (*Module)(nil)
