package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// UserHandler serves credential state changes and listings.
type UserHandler struct {
	service *usecase.UserService
}

// NewUserHandler builds the user handler.
func NewUserHandler(service *usecase.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SetState activates or deactivates a credential.
func (h *UserHandler) SetState(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	if err := h.service.SetState(c.Request.Context(), c.Param("id"), req.State); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidState, Status: http.StatusBadRequest, Message: "estado invalido"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "usuario no encontrado"},
		}, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "estado actualizado"})
}

// List returns every registered credential.
func (h *UserHandler) List(c *gin.Context) {
	credentials, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "error interno"))
		return
	}

	out := make([]UserSummary, 0, len(credentials))
	for _, cred := range credentials {
		out = append(out, UserSummary{
			ID:             cred.ID,
			Handle:         cred.Handle,
			State:          string(cred.State),
			FailedAttempts: cred.FailedAttempts,
			CreatedAt:      cred.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}
