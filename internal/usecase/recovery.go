package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	applogger "github.com/alexfer060900/seguridadInformacion/internal/infra/logger"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/security"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

// RecoveryService issues and redeems password recovery requests.
type RecoveryService struct {
	repos      port.RepositorySet
	txm        port.TxManager
	gen        *security.Generator
	validator  *security.PasswordValidator
	publisher  port.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
	codeLength int
}

// NewRecoveryService builds the recovery use case.
func NewRecoveryService(repos port.RepositorySet, txm port.TxManager, gen *security.Generator, validator *security.PasswordValidator, publisher port.EventPublisher, logger *zap.Logger, codeLength int) *RecoveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if codeLength <= 0 {
		codeLength = 6
	}

	return &RecoveryService{
		repos:      repos,
		txm:        txm,
		gen:        gen,
		validator:  validator,
		publisher:  publisher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		codeLength: codeLength,
	}
}

// WithClock replaces the time source, primarily for tests.
func (s *RecoveryService) WithClock(now func() time.Time) *RecoveryService {
	if now != nil {
		s.now = now
	}
	return s
}

// RecoveryIssue is the outcome of a recovery request. Issued is false when
// the email is unknown; callers must answer identically either way.
type RecoveryIssue struct {
	Code   string
	Issued bool
}

// Request creates a recovery challenge for the account behind the email.
// Unknown emails are not an error so the endpoint cannot be used to probe
// registered addresses.
func (s *RecoveryService) Request(ctx context.Context, email string) (*RecoveryIssue, error) {
	credential, err := s.repos.Credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("recovery requested for unknown email",
				zap.String("email", applogger.MaskEmail(email)),
			)
			return &RecoveryIssue{Issued: false}, nil
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	code, err := s.gen.NumericCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate recovery code: %w", err)
	}

	now := s.now()
	request := domain.RecoveryRequest{
		ID:           uuid.NewString(),
		CredentialID: credential.ID,
		Code:         code,
		State:        domain.RecoveryPending,
		IssuedAt:     now,
		ExpiresAt:    now.AddDate(0, 0, 1),
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		return repos.Recoveries.Create(ctx, request)
	})
	if err != nil {
		return nil, fmt.Errorf("store recovery request: %w", err)
	}

	if err := s.publisher.PublishRecoveryRequested(ctx, domain.RecoveryRequestedEvent{
		CredentialID: credential.ID,
		RequestID:    request.ID,
		RequestedAt:  now,
		ExpiresAt:    request.ExpiresAt,
	}); err != nil {
		s.logger.Warn("publish recovery requested event failed", zap.Error(err))
	}

	s.logger.Info("recovery request issued",
		zap.String("credential_id", credential.ID),
		zap.String("request_id", request.ID),
	)

	return &RecoveryIssue{Code: code, Issued: true}, nil
}

// Redeem validates the recovery code and replaces the password. The new
// password must pass the strength policy; redeeming also clears the failure
// counter so the account is usable again.
func (s *RecoveryService) Redeem(ctx context.Context, handle, code, newPassword string) error {
	credential, err := s.repos.Credentials.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup credential: %w", err)
	}

	request, err := s.repos.Recoveries.GetPendingByCredential(ctx, credential.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecoveryInvalid
		}
		return fmt.Errorf("lookup recovery request: %w", err)
	}

	if request.Code != code {
		return ErrRecoveryInvalid
	}

	now := s.now()
	if request.Expired(now) {
		err := s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
			return repos.Recoveries.UpdateState(ctx, request.ID, domain.RecoveryExpired)
		})
		if err != nil {
			return fmt.Errorf("expire recovery request: %w", err)
		}
		return ErrRecoveryExpired
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if err := repos.Credentials.UpdatePasswordHash(ctx, credential.ID, hash); err != nil {
			return fmt.Errorf("update password hash: %w", err)
		}
		if err := repos.Recoveries.UpdateState(ctx, request.ID, domain.RecoveryUsed); err != nil {
			return fmt.Errorf("mark recovery used: %w", err)
		}
		return repos.Credentials.ResetFailedAttempts(ctx, credential.ID)
	})
	if err != nil {
		return err
	}

	if err := s.publisher.PublishPasswordReset(ctx, domain.PasswordResetEvent{
		CredentialID: credential.ID,
		ResetAt:      now,
	}); err != nil {
		s.logger.Warn("publish password reset event failed", zap.Error(err))
	}

	s.logger.Info("password reset", zap.String("credential_id", credential.ID))

	return nil
}
