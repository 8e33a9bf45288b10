// Package notification provides the in-app notification bounded context:
// persistence, SSE push to connected users, and the inbox HTTP API.
package notification

import (
	apphttp "leaddesk_backend/internal/http"
	notifhandler "leaddesk_backend/internal/notification/handler"
	"leaddesk_backend/internal/notification/inapp"
	"leaddesk_backend/internal/notification/sse"
	"leaddesk_backend/platform/httpkit"
	"leaddesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notification bounded context.
type Module struct {
	inapp   *inapp.Service
	sse     *sse.Service
	handler *notifhandler.HTTPHandler
}

// NewModule wires the notification module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	sseSvc := sse.New(log)
	svc := inapp.NewService(inapp.NewRepository(pool), log)
	svc.SetSSE(sseSvc)

	return &Module{
		inapp:   svc,
		sse:     sseSvc,
		handler: notifhandler.NewHTTPHandler(svc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// Service returns the in-app notification service for use by other modules.
func (m *Module) Service() *inapp.Service { return m.inapp }

// Close shuts down the SSE connections.
func (m *Module) Close() {
	m.sse.Close()
}

// RegisterRoutes mounts notification routes on the router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	m.handler.RegisterRoutes(group)

	group.GET("/stream", m.sse.Handler(func(c *gin.Context) (uuid.UUID, bool) {
		identity := httpkit.GetIdentity(c)
		if !identity.IsAuthenticated() {
			return uuid.Nil, false
		}
		return identity.UserID(), true
	}))
}

var _ apphttp.Module = (*Module)(nil)
