package domain

import "time"

// ValidationCodeState enumerates the states of an account activation code.
type ValidationCodeState string

const (
	ValidationCodePending   ValidationCodeState = "pendiente"
	ValidationCodeConfirmed ValidationCodeState = "confirmado"
	ValidationCodeExpired   ValidationCodeState = "expirado"
)

// ValidationCode is the one-shot account activation code issued at registration.
type ValidationCode struct {
	ID           string
	CredentialID string
	Code         string
	State        ValidationCodeState
	IssuedAt     time.Time
}

// Expired reports whether more than one calendar day passed since issuance.
// The comparison is date-only: a code issued late on Monday survives all of
// Tuesday and lapses on Wednesday.
func (v ValidationCode) Expired(now time.Time) bool {
	return daysBetween(v.IssuedAt, now) > 1
}

// RecoveryState enumerates the states of a password recovery request.
type RecoveryState string

const (
	RecoveryPending RecoveryState = "pendiente"
	RecoveryUsed    RecoveryState = "usado"
	RecoveryExpired RecoveryState = "expirado"
)

// RecoveryRequest is a pending password reset challenge. The expiration date
// is the issue date plus one day.
type RecoveryRequest struct {
	ID           string
	CredentialID string
	Code         string
	State        RecoveryState
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the current date is past the expiration date.
func (r RecoveryRequest) Expired(now time.Time) bool {
	return truncateToDay(now).After(truncateToDay(r.ExpiresAt))
}

func daysBetween(from, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
