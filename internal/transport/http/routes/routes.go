package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/infra/config"
	"github.com/alexfer060900/seguridadInformacion/internal/transport/http/handlers"
	"github.com/alexfer060900/seguridadInformacion/internal/transport/http/middleware"
	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Registration *usecase.RegistrationService
	Auth         *usecase.AuthService
	Sessions     *usecase.SessionService
	Users        *usecase.UserService
	Recovery     *usecase.RecoveryService
	Audit        *usecase.AuditService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		isDev := deps.Config.App.Env == "development"

		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration)
		api.POST("/registro", registrationHandler.Register)
		api.POST("/validar-cuenta", registrationHandler.Confirm)

		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Sessions)

		loginHandlers := append(buildLoginMiddlewares(deps), authHandler.Login)
		api.POST("/login", loginHandlers...)
		api.POST("/verificar-segundo-factor", authHandler.VerifySecondFactor)
		api.POST("/cerrar-sesion", authHandler.CloseSession)
		api.POST("/desbloquear-usuario", authHandler.Unblock)

		recoveryHandler := handlers.NewRecoveryHandler(deps.Services.Recovery, isDev)
		recoveryHandlers := append(buildRecoveryMiddlewares(deps), recoveryHandler.Request)
		api.POST("/recuperar-cuenta", recoveryHandlers...)
		api.POST("/restablecer-password", recoveryHandler.Reset)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		api.PUT("/usuario/:id/estado", userHandler.SetState)
		api.GET("/usuarios", userHandler.List)

		sessionHandler := handlers.NewSessionHandler(deps.Services.Sessions)
		api.GET("/sesiones-activas", sessionHandler.ListActive)

		auditHandler := handlers.NewAuditHandler(deps.Services.Audit)
		api.GET("/auditoria", auditHandler.Latest)
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildRecoveryMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.RecoveryMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Hour
	}

	rule := middleware.RateLimitRule{
		Name:       "recovery_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
