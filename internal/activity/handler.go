package activity

import (
	"net/http"

	"leaddesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes the audit trail over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates an activity handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts activity routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lead/:leadId", h.ListByLead)
}

// ListByLead returns a lead's audit trail, newest first.
func (h *Handler) ListByLead(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id")
		return
	}

	entries, err := h.svc.ListByLead(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entries)
}
