package domain

import "time"

// Access log result tags. These values are part of the stored audit
// vocabulary and must not be translated.
const (
	AccessBlocked  = "bloqueado"
	AccessFailed   = "fallido"
	AccessLoginOK  = "login_exitoso"
	AccessComplete = "acceso_completo"
)

// Actors recorded on administrative audit entries.
const (
	ActorSystem = "sistema"
	ActorAdmin  = "admin"
)

// AccessLogEntry is an append-only record of a login-path outcome. The
// access type is an optional channel label; current writers leave it unset.
type AccessLogEntry struct {
	ID         string
	Handle     string
	IP         string
	Result     string
	AccessType *string
	OccurredAt time.Time
}

// AuditEntry records an administrative action against an account.
type AuditEntry struct {
	ID         string
	Actor      string
	Action     string
	Detail     string
	OccurredAt time.Time
}
