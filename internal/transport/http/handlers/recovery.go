package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// RecoveryHandler serves password recovery. In development mode the issued
// code is echoed in the response; in production it only leaves through the
// delivery channel.
type RecoveryHandler struct {
	service *usecase.RecoveryService
	isDev   bool
}

// NewRecoveryHandler builds the recovery handler.
func NewRecoveryHandler(service *usecase.RecoveryService, isDev bool) *RecoveryHandler {
	return &RecoveryHandler{service: service, isDev: isDev}
}

// Request issues a recovery code. The response is identical for known and
// unknown emails.
func (h *RecoveryHandler) Request(c *gin.Context) {
	var req RecoveryRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	issue, err := h.service.Request(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "error interno"))
		return
	}

	resp := RecoveryResponse{Message: "si el mail existe, se enviaron instrucciones"}
	if h.isDev && issue.Issued {
		resp.Code = issue.Code
	}

	c.JSON(http.StatusOK, resp)
}

var resetErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "usuario no encontrado"},
	{Err: usecase.ErrRecoveryInvalid, Status: http.StatusBadRequest, Message: "codigo de recuperacion invalido"},
	{Err: usecase.ErrRecoveryExpired, Status: http.StatusBadRequest, Message: "codigo de recuperacion expirado"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password demasiado debil"},
}

// Reset redeems a recovery code and replaces the password.
func (h *RecoveryHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	if err := h.service.Redeem(c.Request.Context(), req.Handle, req.Code, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, resetErrorCases, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password actualizada"})
}
