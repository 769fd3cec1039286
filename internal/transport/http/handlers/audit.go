package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// AuditHandler serves the access-log listing.
type AuditHandler struct {
	service *usecase.AuditService
}

// NewAuditHandler builds the audit handler.
func NewAuditHandler(service *usecase.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Latest returns the most recent access-log entries, newest first.
func (h *AuditHandler) Latest(c *gin.Context) {
	entries, err := h.service.LatestAccess(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "error interno"))
		return
	}

	out := make([]AccessLogView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AccessLogView{
			ID:         e.ID,
			Handle:     e.Handle,
			IP:         e.IP,
			Result:     e.Result,
			AccessType: e.AccessType,
			OccurredAt: e.OccurredAt,
		})
	}

	c.JSON(http.StatusOK, out)
}
