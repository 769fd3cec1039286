package domain

import "time"

// CredentialState enumerates the lifecycle states of a credential. The values
// are persisted and exposed on the wire as-is.
type CredentialState string

const (
	CredentialStatePending  CredentialState = "pendiente"
	CredentialStateActive   CredentialState = "activo"
	CredentialStateInactive CredentialState = "inactivo"
)

// Valid reports whether the state is one of the known lifecycle states.
func (s CredentialState) Valid() bool {
	switch s {
	case CredentialStatePending, CredentialStateActive, CredentialStateInactive:
		return true
	}
	return false
}

// MaxFailedAttempts is the lockout threshold. Once the counter reaches it,
// logins are rejected before the password is checked.
const MaxFailedAttempts = 4

// Credential is the authentication record for a registered person.
type Credential struct {
	ID             string
	Handle         string
	PasswordHash   string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	State          CredentialState
	FailedAttempts int
	CreatedAt      time.Time
}

// Locked reports whether the failure counter reached the lockout threshold.
func (c Credential) Locked() bool {
	return c.FailedAttempts >= MaxFailedAttempts
}

// AttemptsRemaining returns how many login attempts remain before lockout.
func (c Credential) AttemptsRemaining() int {
	remaining := MaxFailedAttempts - c.FailedAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}
