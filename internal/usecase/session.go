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

// SessionService closes sessions and serves the active-sessions listing.
type SessionService struct {
	repos     port.RepositorySet
	publisher port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewSessionService builds the session use case.
func NewSessionService(repos port.RepositorySet, publisher port.EventPublisher, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionService{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, primarily for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

// Close ends an active session.
func (s *SessionService) Close(ctx context.Context, sessionID string) error {
	closed, err := s.repos.Sessions.Close(ctx, sessionID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("close session: %w", err)
	}

	if err := s.publisher.PublishSessionClosed(ctx, domain.SessionClosedEvent{
		SessionID:    closed.ID,
		CredentialID: closed.CredentialID,
		Reason:       "logout",
		ClosedAt:     *closed.EndedAt,
	}); err != nil {
		s.logger.Warn("publish session closed event failed", zap.Error(err))
	}

	s.logger.Info("session closed",
		zap.String("session_id", closed.ID),
		zap.String("credential_id", closed.CredentialID),
	)

	return nil
}

// ListActive returns every open session with its credential handle.
func (s *SessionService) ListActive(ctx context.Context) ([]domain.ActiveSession, error) {
	sessions, err := s.repos.Sessions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return sessions, nil
}
