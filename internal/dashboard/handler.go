package dashboard

import (
	"leaddesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the dashboard route.
type Handler struct {
	svc *Service
}

// NewHandler creates a dashboard handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts dashboard routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Overview)
}

// Overview returns the aggregated lead statistics for the caller.
func (h *Handler) Overview(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, overview)
}
