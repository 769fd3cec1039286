package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// RegistrationHandler serves account registration and activation.
type RegistrationHandler struct {
	service *usecase.RegistrationService
}

// NewRegistrationHandler builds the registration handler.
func NewRegistrationHandler(service *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

var registerErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "faltan datos obligatorios"},
	{Err: usecase.ErrInvalidPhone, Status: http.StatusBadRequest, Message: "telefono invalido"},
	{Err: usecase.ErrInvalidEmail, Status: http.StatusBadRequest, Message: "mail invalido"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "mail ya registrado"},
}

// Register creates a pending credential and returns the generated handle,
// password, and validation code.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	result, err := h.service.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		RespondWithMappedError(c, err, registerErrorCases, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Handle:         result.Handle,
		Password:       result.Password,
		ValidationCode: result.ValidationCode,
	})
}

var confirmErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "usuario no encontrado"},
	{Err: usecase.ErrCodeInvalid, Status: http.StatusBadRequest, Message: "codigo invalido"},
	{Err: usecase.ErrCodeExpired, Status: http.StatusBadRequest, Message: "codigo expirado"},
}

// Confirm validates an activation code and activates the account.
func (h *RegistrationHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "cuerpo de la peticion invalido"))
		return
	}

	if err := h.service.Confirm(c.Request.Context(), req.Handle, req.Code); err != nil {
		RespondWithMappedError(c, err, confirmErrorCases, http.StatusInternalServerError, "error interno")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "cuenta activada"})
}
