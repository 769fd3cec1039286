package domain

import "time"

// SessionState enumerates the states of a session.
type SessionState string

const (
	SessionActive  SessionState = "activa"
	SessionClosed  SessionState = "cerrada"
	SessionExpired SessionState = "expirada"
)

// Session is a logged-in presence bound to a credential. At most one active
// session may exist per credential at any time.
type Session struct {
	ID           string
	CredentialID string
	IP           string
	State        SessionState
	StartedAt    time.Time
	EndedAt      *time.Time
}

// ActiveSession is the read model for the active-sessions listing.
type ActiveSession struct {
	ID        string
	Handle    string
	IP        string
	StartedAt time.Time
}
