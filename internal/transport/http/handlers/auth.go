package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/transport/http/middleware"
	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// AuthHandler serves login, second-factor verification, session close, and
// administrative unblocking.
type AuthHandler struct {
	auth     *usecase.AuthService
	sessions *usecase.SessionService
}

// NewAuthHandler builds the authentication handler.
func NewAuthHandler(auth *usecase.AuthService, sessions *usecase.SessionService) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Login runs the first factor and returns the second-factor challenge.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Handle, req.Password, c.ClientIP())
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		SecondFactorCode: result.SecondFactorCode,
		CredentialID:     result.CredentialID,
	})
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	var mismatch *usecase.PasswordMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusUnauthorized, LoginRejectedResponse{
			Error:             "credenciales invalidas",
			AttemptsRemaining: mismatch.AttemptsRemaining,
			TraceID:           middleware.GetTraceID(c),
		})
		return
	}

	var stateErr *usecase.AccountStateError
	if errors.As(err, &stateErr) {
		c.JSON(http.StatusForbidden, NewErrorResponse(c, fmt.Sprintf("usuario en estado %s", stateErr.State)))
		return
	}

	var conflict *usecase.ActiveSessionError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, SessionConflictResponse{
			Error:     "ya existe una sesion activa",
			SessionIP: conflict.IP,
			TraceID:   middleware.GetTraceID(c),
		})
		return
	}

	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrAccountLocked, Status: http.StatusForbidden, Message: "usuario bloqueado"},
		{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "credenciales invalidas"},
	}, http.StatusInternalServerError, "error interno")
}

// VerifySecondFactor claims the challenge code and opens the session.
func (h *AuthHandler) VerifySecondFactor(c *gin.Context) {
	var req SecondFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	result, err := h.auth.VerifySecondFactor(c.Request.Context(), req.CredentialID, req.Code, c.ClientIP())
	if err != nil {
		var conflict *usecase.ActiveSessionError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, SessionConflictResponse{
				Error:     "ya existe una sesion activa",
				SessionIP: conflict.IP,
				TraceID:   middleware.GetTraceID(c),
			})
			return
		}

		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSecondFactorInvalid, Status: http.StatusUnauthorized, Message: "codigo 2fa invalido"},
		}, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusOK, SecondFactorResponse{
		SessionID: result.SessionID,
		Handle:    result.Handle,
	})
}

// CloseSession ends an active session.
func (h *AuthHandler) CloseSession(c *gin.Context) {
	var req CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	if err := h.sessions.Close(c.Request.Context(), req.SessionID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSessionNotFound, Status: http.StatusNotFound, Message: "sesion no encontrada"},
		}, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "sesion cerrada"})
}

// Unblock resets the failure counter for a locked account.
func (h *AuthHandler) Unblock(c *gin.Context) {
	var req UnblockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	if err := h.auth.Unblock(c.Request.Context(), req.Handle); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "usuario no encontrado"},
		}, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "usuario desbloqueado"})
}
