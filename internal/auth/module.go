// Package auth wires authentication and user management into the router.
package auth

import (
	"leaddesk_backend/internal/auth/handler"
	"leaddesk_backend/internal/auth/repository"
	"leaddesk_backend/internal/auth/service"
	apphttp "leaddesk_backend/internal/http"
	"leaddesk_backend/internal/roles"
	"leaddesk_backend/platform/config"
	"leaddesk_backend/platform/httpkit"
	"leaddesk_backend/platform/logger"
	"leaddesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the auth stack.
type Module struct {
	repo    *repository.Repository
	svc     *service.Service
	handler *handler.Handler
}

// NewModule builds the auth module on the given pool.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{repo: repo, svc: svc, handler: h}
}

// Name identifies the module.
func (m *Module) Name() string { return "auth" }

// Service exposes the auth service to other modules.
func (m *Module) Service() *service.Service { return m.svc }

// Repository exposes the user repository to other modules.
func (m *Module) Repository() *repository.Repository { return m.repo }

// RegisterRoutes mounts auth routes on the router.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterAuthRoutes(public)

	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/auth"))

	users := ctx.Protected.Group("/users")
	users.Use(httpkit.RequireRole(roles.Admin))
	m.handler.RegisterUserRoutes(users)
}
