package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexfer060900/seguridadInformacion/internal/transport/http/middleware"
)

// ErrorResponse is the error payload shared by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse builds an error body enriched with the trace ID.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{Error: message, TraceID: middleware.GetTraceID(c)}
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"mensaje"`
}

// The request and response field names below are part of the public API
// contract and stay in Spanish.

type RegisterRequest struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"mail"`
	Phone     string `json:"telefono"`
}

type RegisterResponse struct {
	Handle         string `json:"usuario"`
	Password       string `json:"password"`
	ValidationCode string `json:"codigo_validacion"`
}

type ConfirmRequest struct {
	Handle string `json:"usuario"`
	Code   string `json:"codigo"`
}

type LoginRequest struct {
	Handle   string `json:"usuario"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SecondFactorCode string `json:"codigo_2fa"`
	CredentialID     string `json:"usuario_id"`
}

// LoginRejectedResponse carries the remaining attempts on a failed password.
type LoginRejectedResponse struct {
	Error             string `json:"error"`
	AttemptsRemaining int    `json:"intentos_restantes"`
	TraceID           string `json:"trace_id,omitempty"`
}

// SessionConflictResponse reports the IP of the session that blocks a login.
type SessionConflictResponse struct {
	Error     string `json:"error"`
	SessionIP string `json:"sesion_ip"`
	TraceID   string `json:"trace_id,omitempty"`
}

// SecondFactorRequest carries the challenge back. The code travels as
// "codigo"; "codigo_2fa" is only used in the login response.
type SecondFactorRequest struct {
	CredentialID string `json:"usuario_id"`
	Code         string `json:"codigo"`
}

type SecondFactorResponse struct {
	SessionID string `json:"sesion_id"`
	Handle    string `json:"usuario"`
}

type CloseSessionRequest struct {
	SessionID string `json:"sesion_id"`
}

type UnblockRequest struct {
	Handle string `json:"usuario"`
}

type RecoveryRequestBody struct {
	Email string `json:"mail"`
}

// RecoveryResponse confirms the request; the code is included only when the
// service runs in development mode.
type RecoveryResponse struct {
	Message string `json:"mensaje"`
	Code    string `json:"codigo,omitempty"`
}

type ResetPasswordRequest struct {
	Handle      string `json:"usuario"`
	Code        string `json:"codigo"`
	NewPassword string `json:"nueva_password"`
}

type StateRequest struct {
	State string `json:"estado"`
}

type UserSummary struct {
	ID             string    `json:"id"`
	Handle         string    `json:"usuario"`
	State          string    `json:"estado"`
	FailedAttempts int       `json:"intentos_fallidos"`
	CreatedAt      time.Time `json:"fecha_creacion"`
}

type ActiveSessionView struct {
	SessionID string    `json:"sesion_id"`
	Handle    string    `json:"usuario"`
	IP        string    `json:"ip"`
	StartedAt time.Time `json:"inicio"`
}

type AccessLogView struct {
	ID         string    `json:"id"`
	Handle     string    `json:"usuario"`
	IP         string    `json:"ip"`
	Result     string    `json:"resultado"`
	AccessType *string   `json:"tipo"`
	OccurredAt time.Time `json:"fecha"`
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
