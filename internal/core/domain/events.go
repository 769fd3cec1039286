package domain

import "time"

// AccountRegisteredEvent is emitted when a new credential is stored.
type AccountRegisteredEvent struct {
	EventID      string
	CredentialID string
	Handle       string
	Email        string
	RegisteredAt time.Time
}

// AccountActivatedEvent is emitted when a validation code is confirmed.
type AccountActivatedEvent struct {
	EventID      string
	CredentialID string
	Handle       string
	ActivatedAt  time.Time
}

// LoginBlockedEvent is emitted when a login hits the lockout gate.
type LoginBlockedEvent struct {
	EventID      string
	CredentialID string
	Handle       string
	IP           string
	BlockedAt    time.Time
}

// SessionOpenedEvent is emitted when the second factor completes a login.
type SessionOpenedEvent struct {
	EventID      string
	SessionID    string
	CredentialID string
	IP           string
	OpenedAt     time.Time
}

// SessionClosedEvent is emitted when a session ends, explicitly or because
// the account was deactivated.
type SessionClosedEvent struct {
	EventID      string
	SessionID    string
	CredentialID string
	Reason       string
	ClosedAt     time.Time
}

// RecoveryRequestedEvent is emitted when a password recovery is issued.
type RecoveryRequestedEvent struct {
	EventID      string
	CredentialID string
	RequestID    string
	RequestedAt  time.Time
	ExpiresAt    time.Time
}

// PasswordResetEvent is emitted when a recovery request is redeemed.
type PasswordResetEvent struct {
	EventID      string
	CredentialID string
	ResetAt      time.Time
}

// AccountUnblockedEvent is emitted when an administrator resets the failure
// counter.
type AccountUnblockedEvent struct {
	EventID      string
	CredentialID string
	Handle       string
	Actor        string
	UnblockedAt  time.Time
}
