package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// SessionHandler serves the active-sessions listing.
type SessionHandler struct {
	service *usecase.SessionService
}

// NewSessionHandler builds the session handler.
func NewSessionHandler(service *usecase.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// ListActive returns every open session.
func (h *SessionHandler) ListActive(c *gin.Context) {
	sessions, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "error interno"))
		return
	}

	out := make([]ActiveSessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ActiveSessionView{
			SessionID: s.ID,
			Handle:    s.Handle,
			IP:        s.IP,
			StartedAt: s.StartedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}
