package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/security"
	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

func newRegistrationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := usecase.NewRegistrationService(port.RepositorySet{}, nil, security.NewGenerator(), nil, nil, 12, 6)
	handler := NewRegistrationHandler(service)

	r := gin.New()
	r.POST("/api/registro", handler.Register)
	return r
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	r := newRegistrationRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/registro", strings.NewReader("{not json"))

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cuerpo de la peticion invalido", resp.Error)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	r := newRegistrationRouter()

	w := httptest.NewRecorder()
	body := `{"nombre": "Maria"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/registro", strings.NewReader(body))

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "faltan datos obligatorios", resp.Error)
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	r := newRegistrationRouter()

	w := httptest.NewRecorder()
	body := `{"nombre": "Maria", "apellido": "Gonzalez", "mail": "maria@example.com", "telefono": "555-1234"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/registro", strings.NewReader(body))

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "telefono invalido", resp.Error)
}
