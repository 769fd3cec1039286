package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID      string           `json:"event_id"`
	EventType    string           `json:"event_type"`
	CredentialID string           `json:"credential_id,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
	Version      string           `json:"version"`
	Payload      any              `json:"payload"`
	Metadata     envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, credentialID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:      id,
		EventType:    eventType,
		CredentialID: credentialID,
		Timestamp:    ts.UTC(),
		Version:      schemaVersion,
		Payload:      payload,
		Metadata:     metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes auth.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		CredentialID string    `json:"credential_id"`
		Handle       string    `json:"handle"`
		Email        string    `json:"email,omitempty"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		CredentialID: event.CredentialID,
		Handle:       event.Handle,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.account.registered", event.CredentialID, event.RegisteredAt, payload)
}

// PublishAccountActivated publishes auth.account.activated events.
func (p *EventPublisher) PublishAccountActivated(ctx context.Context, event domain.AccountActivatedEvent) error {
	payload := struct {
		CredentialID string    `json:"credential_id"`
		Handle       string    `json:"handle"`
		ActivatedAt  time.Time `json:"activated_at"`
	}{
		CredentialID: event.CredentialID,
		Handle:       event.Handle,
		ActivatedAt:  event.ActivatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.account.activated", event.CredentialID, event.ActivatedAt, payload)
}

// PublishLoginBlocked publishes auth.login.blocked events.
func (p *EventPublisher) PublishLoginBlocked(ctx context.Context, event domain.LoginBlockedEvent) error {
	payload := struct {
		CredentialID string    `json:"credential_id"`
		Handle       string    `json:"handle"`
		IP           string    `json:"ip,omitempty"`
		BlockedAt    time.Time `json:"blocked_at"`
	}{
		CredentialID: event.CredentialID,
		Handle:       event.Handle,
		IP:           event.IP,
		BlockedAt:    event.BlockedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.login.blocked", event.CredentialID, event.BlockedAt, payload)
}

// PublishSessionOpened publishes auth.session.opened events.
func (p *EventPublisher) PublishSessionOpened(ctx context.Context, event domain.SessionOpenedEvent) error {
	payload := struct {
		SessionID    string    `json:"session_id"`
		CredentialID string    `json:"credential_id"`
		IP           string    `json:"ip,omitempty"`
		OpenedAt     time.Time `json:"opened_at"`
	}{
		SessionID:    event.SessionID,
		CredentialID: event.CredentialID,
		IP:           event.IP,
		OpenedAt:     event.OpenedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.session.opened", event.CredentialID, event.OpenedAt, payload)
}

// PublishSessionClosed publishes auth.session.closed events.
func (p *EventPublisher) PublishSessionClosed(ctx context.Context, event domain.SessionClosedEvent) error {
	payload := struct {
		SessionID    string    `json:"session_id"`
		CredentialID string    `json:"credential_id"`
		Reason       string    `json:"reason,omitempty"`
		ClosedAt     time.Time `json:"closed_at"`
	}{
		SessionID:    event.SessionID,
		CredentialID: event.CredentialID,
		Reason:       event.Reason,
		ClosedAt:     event.ClosedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.session.closed", event.CredentialID, event.ClosedAt, payload)
}

// PublishRecoveryRequested publishes auth.password.recovery_requested events.
func (p *EventPublisher) PublishRecoveryRequested(ctx context.Context, event domain.RecoveryRequestedEvent) error {
	payload := struct {
		CredentialID string    `json:"credential_id"`
		RequestID    string    `json:"request_id"`
		RequestedAt  time.Time `json:"requested_at"`
		ExpiresAt    time.Time `json:"expires_at"`
	}{
		CredentialID: event.CredentialID,
		RequestID:    event.RequestID,
		RequestedAt:  event.RequestedAt.UTC(),
		ExpiresAt:    event.ExpiresAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.password.recovery_requested", event.CredentialID, event.RequestedAt, payload)
}

// PublishPasswordReset publishes auth.password.reset events.
func (p *EventPublisher) PublishPasswordReset(ctx context.Context, event domain.PasswordResetEvent) error {
	payload := struct {
		CredentialID string    `json:"credential_id"`
		ResetAt      time.Time `json:"reset_at"`
	}{
		CredentialID: event.CredentialID,
		ResetAt:      event.ResetAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.password.reset", event.CredentialID, event.ResetAt, payload)
}

// PublishAccountUnblocked publishes auth.account.unblocked events.
func (p *EventPublisher) PublishAccountUnblocked(ctx context.Context, event domain.AccountUnblockedEvent) error {
	payload := struct {
		CredentialID string    `json:"credential_id"`
		Handle       string    `json:"handle"`
		Actor        string    `json:"actor"`
		UnblockedAt  time.Time `json:"unblocked_at"`
	}{
		CredentialID: event.CredentialID,
		Handle:       event.Handle,
		Actor:        event.Actor,
		UnblockedAt:  event.UnblockedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.account.unblocked", event.CredentialID, event.UnblockedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
