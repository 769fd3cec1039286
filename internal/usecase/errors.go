package usecase

import (
	"errors"
	"fmt"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
)

var (
	// Registration.
	ErrMissingFields = errors.New("required registration fields are missing")
	ErrInvalidPhone  = errors.New("phone must contain digits only")
	ErrInvalidEmail  = errors.New("email address is malformed")
	ErrEmailTaken    = errors.New("email is already registered")

	// Lookups.
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")

	// Activation codes.
	ErrCodeInvalid = errors.New("validation code is invalid")
	ErrCodeExpired = errors.New("validation code has expired")

	// Login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")

	// Second factor.
	ErrSecondFactorInvalid = errors.New("second factor code is invalid")

	// Lifecycle.
	ErrInvalidState = errors.New("unknown account state")

	// Recovery.
	ErrRecoveryInvalid = errors.New("recovery code is invalid")
	ErrRecoveryExpired = errors.New("recovery code has expired")
	ErrWeakPassword    = errors.New("password does not meet the policy")
)

// AccountStateError reports a login rejected because the account is not
// active. The state is exposed to the caller.
type AccountStateError struct {
	State domain.CredentialState
}

func (e *AccountStateError) Error() string {
	return fmt.Sprintf("account state %q does not allow login", e.State)
}

// PasswordMismatchError carries the number of attempts left before lockout.
type PasswordMismatchError struct {
	AttemptsRemaining int
}

func (e *PasswordMismatchError) Error() string {
	return "password mismatch"
}

// Unwrap lets callers match the generic invalid-credentials sentinel.
func (e *PasswordMismatchError) Unwrap() error {
	return ErrInvalidCredentials
}

// ActiveSessionError reports an operation rejected because the credential
// already has an open session.
type ActiveSessionError struct {
	IP string
}

func (e *ActiveSessionError) Error() string {
	return "an active session already exists"
}
