package port

import (
	"context"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
)

// EventPublisher emits security events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishAccountActivated(ctx context.Context, event domain.AccountActivatedEvent) error
	PublishLoginBlocked(ctx context.Context, event domain.LoginBlockedEvent) error
	PublishSessionOpened(ctx context.Context, event domain.SessionOpenedEvent) error
	PublishSessionClosed(ctx context.Context, event domain.SessionClosedEvent) error
	PublishRecoveryRequested(ctx context.Context, event domain.RecoveryRequestedEvent) error
	PublishPasswordReset(ctx context.Context, event domain.PasswordResetEvent) error
	PublishAccountUnblocked(ctx context.Context, event domain.AccountUnblockedEvent) error
}
