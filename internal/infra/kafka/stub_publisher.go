package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, credentialID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("credential_id", credentialID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs auth.account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"handle":        event.Handle,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("auth.account.registered", event.CredentialID, event.RegisteredAt, payload)
	return nil
}

// PublishAccountActivated logs auth.account.activated events.
func (p *StubPublisher) PublishAccountActivated(_ context.Context, event domain.AccountActivatedEvent) error {
	payload := map[string]any{
		"handle":       event.Handle,
		"activated_at": event.ActivatedAt,
	}
	p.logEvent("auth.account.activated", event.CredentialID, event.ActivatedAt, payload)
	return nil
}

// PublishLoginBlocked logs auth.login.blocked events.
func (p *StubPublisher) PublishLoginBlocked(_ context.Context, event domain.LoginBlockedEvent) error {
	payload := map[string]any{
		"handle":     event.Handle,
		"ip":         event.IP,
		"blocked_at": event.BlockedAt,
	}
	p.logEvent("auth.login.blocked", event.CredentialID, event.BlockedAt, payload)
	return nil
}

// PublishSessionOpened logs auth.session.opened events.
func (p *StubPublisher) PublishSessionOpened(_ context.Context, event domain.SessionOpenedEvent) error {
	payload := map[string]any{
		"session_id": event.SessionID,
		"ip":         event.IP,
		"opened_at":  event.OpenedAt,
	}
	p.logEvent("auth.session.opened", event.CredentialID, event.OpenedAt, payload)
	return nil
}

// PublishSessionClosed logs auth.session.closed events.
func (p *StubPublisher) PublishSessionClosed(_ context.Context, event domain.SessionClosedEvent) error {
	payload := map[string]any{
		"session_id": event.SessionID,
		"reason":     event.Reason,
		"closed_at":  event.ClosedAt,
	}
	p.logEvent("auth.session.closed", event.CredentialID, event.ClosedAt, payload)
	return nil
}

// PublishRecoveryRequested logs auth.password.recovery_requested events.
func (p *StubPublisher) PublishRecoveryRequested(_ context.Context, event domain.RecoveryRequestedEvent) error {
	payload := map[string]any{
		"request_id":   event.RequestID,
		"requested_at": event.RequestedAt,
		"expires_at":   event.ExpiresAt,
	}
	p.logEvent("auth.password.recovery_requested", event.CredentialID, event.RequestedAt, payload)
	return nil
}

// PublishPasswordReset logs auth.password.reset events.
func (p *StubPublisher) PublishPasswordReset(_ context.Context, event domain.PasswordResetEvent) error {
	payload := map[string]any{
		"reset_at": event.ResetAt,
	}
	p.logEvent("auth.password.reset", event.CredentialID, event.ResetAt, payload)
	return nil
}

// PublishAccountUnblocked logs auth.account.unblocked events.
func (p *StubPublisher) PublishAccountUnblocked(_ context.Context, event domain.AccountUnblockedEvent) error {
	payload := map[string]any{
		"handle":       event.Handle,
		"actor":        event.Actor,
		"unblocked_at": event.UnblockedAt,
	}
	p.logEvent("auth.account.unblocked", event.CredentialID, event.UnblockedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
