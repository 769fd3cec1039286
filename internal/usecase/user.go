package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

// UserService handles credential lifecycle transitions and listings.
type UserService struct {
	repos  port.RepositorySet
	txm    port.TxManager
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService builds the user lifecycle use case.
func NewUserService(repos port.RepositorySet, txm port.TxManager, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserService{
		repos:  repos,
		txm:    txm,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, primarily for tests.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	if now != nil {
		s.now = now
	}
	return s
}

// SetState transitions a credential between activo and inactivo. Moving to
// inactivo closes every open session in the same transaction.
func (s *UserService) SetState(ctx context.Context, id string, state string) error {
	target := domain.CredentialState(state)
	if target != domain.CredentialStateActive && target != domain.CredentialStateInactive {
		return ErrInvalidState
	}

	credential, err := s.repos.Credentials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup credential: %w", err)
	}

	now := s.now()
	var closedSessions int
	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if target == domain.CredentialStateInactive {
			n, err := repos.Sessions.CloseAllForCredential(ctx, credential.ID, now)
			if err != nil {
				return fmt.Errorf("close sessions: %w", err)
			}
			closedSessions = n
		}
		return repos.Credentials.UpdateState(ctx, credential.ID, target)
	})
	if err != nil {
		return err
	}

	s.logger.Info("credential state updated",
		zap.String("credential_id", credential.ID),
		zap.String("state", string(target)),
		zap.Int("closed_sessions", closedSessions),
	)

	return nil
}

// List returns every credential.
func (s *UserService) List(ctx context.Context) ([]domain.Credential, error) {
	credentials, err := s.repos.Credentials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return credentials, nil
}
