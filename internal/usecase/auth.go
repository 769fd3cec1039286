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

// AuthService drives the login state machine: first factor, lockout,
// second-factor verification, and administrative unblocking.
type AuthService struct {
	repos              port.RepositorySet
	txm                port.TxManager
	secondFactor       port.SecondFactorStore
	gen                *security.Generator
	publisher          port.EventPublisher
	logger             *zap.Logger
	now                func() time.Time
	secondFactorLength int
}

// NewAuthService builds the authentication use case.
func NewAuthService(repos port.RepositorySet, txm port.TxManager, secondFactor port.SecondFactorStore, gen *security.Generator, publisher port.EventPublisher, logger *zap.Logger, secondFactorLength int) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if secondFactorLength <= 0 {
		secondFactorLength = 6
	}

	return &AuthService{
		repos:              repos,
		txm:                txm,
		secondFactor:       secondFactor,
		gen:                gen,
		publisher:          publisher,
		logger:             logger,
		now:                func() time.Time { return time.Now().UTC() },
		secondFactorLength: secondFactorLength,
	}
}

// WithClock replaces the time source, primarily for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// LoginResult carries the issued second-factor challenge.
type LoginResult struct {
	CredentialID     string
	SecondFactorCode string
}

// SecondFactorResult carries the opened session.
type SecondFactorResult struct {
	SessionID string
	Handle    string
}

// Login runs the first factor. The gate order is fixed: lookup, lockout,
// account state, password, active session. The lockout gate fires before the
// password is ever checked.
func (s *AuthService) Login(ctx context.Context, handle, password, ip string) (*LoginResult, error) {
	credential, err := s.repos.Credentials.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	now := s.now()

	if credential.Locked() {
		if err := s.recordAccess(ctx, credential.Handle, ip, domain.AccessBlocked, now); err != nil {
			s.logger.Warn("record blocked access failed", zap.Error(err))
		}
		if err := s.publisher.PublishLoginBlocked(ctx, domain.LoginBlockedEvent{
			CredentialID: credential.ID,
			Handle:       credential.Handle,
			IP:           ip,
			BlockedAt:    now,
		}); err != nil {
			s.logger.Warn("publish login blocked event failed", zap.Error(err))
		}
		return nil, ErrAccountLocked
	}

	if credential.State != domain.CredentialStateActive {
		return nil, &AccountStateError{State: credential.State}
	}

	match, err := security.VerifyPassword(password, credential.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !match {
		var attempts int
		err := s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
			n, err := repos.Credentials.IncrementFailedAttempts(ctx, credential.ID)
			if err != nil {
				return fmt.Errorf("increment failed attempts: %w", err)
			}
			attempts = n
			return repos.AccessLog.Append(ctx, domain.AccessLogEntry{
				ID:         uuid.NewString(),
				Handle:     credential.Handle,
				IP:         ip,
				Result:     domain.AccessFailed,
				OccurredAt: now,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}

		remaining := domain.MaxFailedAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		return nil, &PasswordMismatchError{AttemptsRemaining: remaining}
	}

	if existing, err := s.repos.Sessions.GetActiveByCredential(ctx, credential.ID); err == nil {
		return nil, &ActiveSessionError{IP: existing.IP}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check active session: %w", err)
	}

	code, err := s.gen.NumericCode(s.secondFactorLength)
	if err != nil {
		return nil, fmt.Errorf("generate second factor code: %w", err)
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if err := repos.Credentials.ResetFailedAttempts(ctx, credential.ID); err != nil {
			return fmt.Errorf("reset failed attempts: %w", err)
		}
		return repos.AccessLog.Append(ctx, domain.AccessLogEntry{
			ID:         uuid.NewString(),
			Handle:     credential.Handle,
			IP:         ip,
			Result:     domain.AccessLoginOK,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("record successful first factor: %w", err)
	}

	if err := s.secondFactor.Issue(ctx, credential.ID, code); err != nil {
		return nil, fmt.Errorf("issue second factor: %w", err)
	}

	s.logger.Info("first factor accepted",
		zap.String("credential_id", credential.ID),
		zap.String("ip", applogger.MaskIP(ip)),
	)

	return &LoginResult{CredentialID: credential.ID, SecondFactorCode: code}, nil
}

// VerifySecondFactor claims the challenge code and opens the session. The
// claim is single-consumer: a concurrent duplicate submission loses.
func (s *AuthService) VerifySecondFactor(ctx context.Context, credentialID, code, ip string) (*SecondFactorResult, error) {
	claimed, err := s.secondFactor.Claim(ctx, credentialID, code)
	if err != nil {
		return nil, fmt.Errorf("claim second factor: %w", err)
	}
	if !claimed {
		return nil, ErrSecondFactorInvalid
	}

	credential, err := s.repos.Credentials.GetByID(ctx, credentialID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSecondFactorInvalid
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	now := s.now()
	session := domain.Session{
		ID:           uuid.NewString(),
		CredentialID: credential.ID,
		IP:           ip,
		State:        domain.SessionActive,
		StartedAt:    now,
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if existing, err := repos.Sessions.GetActiveByCredential(ctx, credential.ID); err == nil {
			return &ActiveSessionError{IP: existing.IP}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check active session: %w", err)
		}

		if err := repos.Sessions.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// Lost the race against a concurrent verification; the
				// partial unique index kept the invariant.
				return &ActiveSessionError{}
			}
			return fmt.Errorf("create session: %w", err)
		}

		return repos.AccessLog.Append(ctx, domain.AccessLogEntry{
			ID:         uuid.NewString(),
			Handle:     credential.Handle,
			IP:         ip,
			Result:     domain.AccessComplete,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSessionOpened(ctx, domain.SessionOpenedEvent{
		SessionID:    session.ID,
		CredentialID: credential.ID,
		IP:           ip,
		OpenedAt:     now,
	}); err != nil {
		s.logger.Warn("publish session opened event failed", zap.Error(err))
	}

	s.logger.Info("session opened",
		zap.String("session_id", session.ID),
		zap.String("credential_id", credential.ID),
		zap.String("ip", applogger.MaskIP(ip)),
	)

	return &SecondFactorResult{SessionID: session.ID, Handle: credential.Handle}, nil
}

// Unblock resets the failure counter unconditionally and records the
// administrative action.
func (s *AuthService) Unblock(ctx context.Context, handle string) error {
	credential, err := s.repos.Credentials.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup credential: %w", err)
	}

	now := s.now()
	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if err := repos.Credentials.ResetFailedAttempts(ctx, credential.ID); err != nil {
			return fmt.Errorf("reset failed attempts: %w", err)
		}
		return repos.Audit.Append(ctx, domain.AuditEntry{
			ID:         uuid.NewString(),
			Actor:      domain.ActorAdmin,
			Action:     "desbloqueo",
			Detail:     credential.Handle,
			OccurredAt: now,
		})
	})
	if err != nil {
		return err
	}

	if err := s.publisher.PublishAccountUnblocked(ctx, domain.AccountUnblockedEvent{
		CredentialID: credential.ID,
		Handle:       credential.Handle,
		Actor:        domain.ActorAdmin,
		UnblockedAt:  now,
	}); err != nil {
		s.logger.Warn("publish account unblocked event failed", zap.Error(err))
	}

	s.logger.Info("account unblocked", zap.String("credential_id", credential.ID))

	return nil
}

func (s *AuthService) recordAccess(ctx context.Context, handle, ip, result string, at time.Time) error {
	return s.repos.AccessLog.Append(ctx, domain.AccessLogEntry{
		ID:         uuid.NewString(),
		Handle:     handle,
		IP:         ip,
		Result:     result,
		OccurredAt: at,
	})
}
