package port

import (
	"context"
	"time"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
)

// CredentialRepository persists credentials.
type CredentialRepository interface {
	Create(ctx context.Context, credential domain.Credential) error
	GetByID(ctx context.Context, id string) (*domain.Credential, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Credential, error)
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
	List(ctx context.Context) ([]domain.Credential, error)
	UpdateState(ctx context.Context, id string, state domain.CredentialState) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// IncrementFailedAttempts bumps the failure counter in a single statement
	// and returns the resulting value.
	IncrementFailedAttempts(ctx context.Context, id string) (int, error)
	ResetFailedAttempts(ctx context.Context, id string) error
}

// ValidationCodeRepository persists account activation codes.
type ValidationCodeRepository interface {
	Create(ctx context.Context, code domain.ValidationCode) error
	GetPendingByCredential(ctx context.Context, credentialID string) (*domain.ValidationCode, error)
	UpdateState(ctx context.Context, id string, state domain.ValidationCodeState) error
}

// SessionRepository persists sessions.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetActiveByCredential(ctx context.Context, credentialID string) (*domain.Session, error)
	// Close marks the session closed and returns the closed record.
	Close(ctx context.Context, id string, at time.Time) (*domain.Session, error)
	CloseAllForCredential(ctx context.Context, credentialID string, at time.Time) (int, error)
	ListActive(ctx context.Context) ([]domain.ActiveSession, error)
}

// RecoveryRepository persists password recovery requests.
type RecoveryRepository interface {
	Create(ctx context.Context, request domain.RecoveryRequest) error
	GetPendingByCredential(ctx context.Context, credentialID string) (*domain.RecoveryRequest, error)
	UpdateState(ctx context.Context, id string, state domain.RecoveryState) error
}

// AccessLogRepository persists login-path outcomes.
type AccessLogRepository interface {
	Append(ctx context.Context, entry domain.AccessLogEntry) error
	Latest(ctx context.Context, limit int) ([]domain.AccessLogEntry, error)
}

// AuditRepository persists administrative audit entries.
type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
}

// RepositorySet bundles all repositories bound to the same executor.
type RepositorySet struct {
	Credentials     CredentialRepository
	ValidationCodes ValidationCodeRepository
	Sessions        SessionRepository
	Recoveries      RecoveryRepository
	AccessLog       AccessLogRepository
	Audit           AuditRepository
}

// TxManager runs a function with every repository bound to one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos RepositorySet) error) error
}
