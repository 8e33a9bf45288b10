package dashboard

import (
	apphttp "leaddesk_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the dashboard stack.
type Module struct {
	handler *Handler
}

// NewModule builds the dashboard module on the given pool.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo)
	return &Module{handler: NewHandler(svc)}
}

// Name identifies the module.
func (m *Module) Name() string { return "dashboard" }

// RegisterRoutes mounts dashboard routes on the router.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/dashboard"))
}
