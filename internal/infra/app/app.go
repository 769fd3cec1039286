package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/config"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/database"
	kafkainfra "github.com/alexfer060900/seguridadInformacion/internal/infra/kafka"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/logger"
	redisinfra "github.com/alexfer060900/seguridadInformacion/internal/infra/redis"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/security"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/telemetry"
	postgresrepo "github.com/alexfer060900/seguridadInformacion/internal/repository/postgres"
	redisrepo "github.com/alexfer060900/seguridadInformacion/internal/repository/redis"
	"github.com/alexfer060900/seguridadInformacion/internal/transport/http/middleware"
	"github.com/alexfer060900/seguridadInformacion/internal/transport/http/routes"
	"github.com/alexfer060900/seguridadInformacion/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	tracer *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tracer, err := telemetry.Attach(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositorySet(pool)
	txManager := postgresrepo.NewTxManager(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	secondFactorStore := redisrepo.NewSecondFactorStore(redisClient.Client(), cfg.Redis.SecondFactorPrefix)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})

	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	generator := security.NewGenerator()
	passwordValidator := security.NewPasswordValidator(
		security.MinLengthRule(cfg.Security.PasswordMinLength),
		security.RequireCharacterClassesRule(2),
		security.RequirePasswordStrengthRule(cfg.Security.PasswordMinScore),
	)

	registrationService := usecase.NewRegistrationService(repos, txManager, generator, eventPublisher, log,
		cfg.Security.GeneratedPasswordLength, cfg.Security.ValidationCodeLength)
	authService := usecase.NewAuthService(repos, txManager, secondFactorStore, generator, eventPublisher, log,
		cfg.Security.SecondFactorCodeLength)
	sessionService := usecase.NewSessionService(repos, eventPublisher, log)
	userService := usecase.NewUserService(repos, txManager, log)
	recoveryService := usecase.NewRecoveryService(repos, txManager, generator, passwordValidator, eventPublisher, log,
		cfg.Security.RecoveryCodeLength)
	auditService := usecase.NewAuditService(repos)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Registration: registrationService,
			Auth:         authService,
			Sessions:     sessionService,
			Users:        userService,
			Recovery:     recoveryService,
			Audit:        auditService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		tracer: tracer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
