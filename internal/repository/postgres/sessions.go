package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

// SessionRepository persists sessions in PostgreSQL. A partial unique index
// on (credential_id) WHERE state = 'activa' guarantees single-session
// semantics even under concurrent verification.
type SessionRepository struct {
	exec pgExecutor
}

// NewSessionRepository builds a repository bound to the provided executor.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	return &SessionRepository{exec: exec}
}

// WithTx returns a repository bound to the provided transaction.
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{exec: tx}
}

// Create inserts a new session. A concurrent active session for the same
// credential surfaces as repository.ErrDuplicate.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	query, args, err := psql.Insert("sessions").
		Columns("id", "credential_id", "ip", "state", "started_at", "ended_at").
		Values(session.ID, session.CredentialID, session.IP, string(session.State), session.StartedAt, session.EndedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session query: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetActiveByCredential fetches the active session for a credential, if any.
func (r *SessionRepository) GetActiveByCredential(ctx context.Context, credentialID string) (*domain.Session, error) {
	query, args, err := psql.Select("id", "credential_id", "ip", "state", "started_at", "ended_at").
		From("sessions").
		Where(squirrel.Eq{
			"credential_id": credentialID,
			"state":         string(domain.SessionActive),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session query: %w", err)
	}

	var (
		session domain.Session
		state   string
	)
	if err := r.exec.QueryRow(ctx, query, args...).Scan(
		&session.ID,
		&session.CredentialID,
		&session.IP,
		&state,
		&session.StartedAt,
		&session.EndedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	session.State = domain.SessionState(state)
	return &session, nil
}

// Close marks a session closed and returns the closed record. Closing an
// already-closed session refreshes its end timestamp; only an unknown id is
// reported as not found.
func (r *SessionRepository) Close(ctx context.Context, id string, at time.Time) (*domain.Session, error) {
	query, args, err := psql.Update("sessions").
		Set("state", string(domain.SessionClosed)).
		Set("ended_at", at).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING credential_id, ip, started_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build close session query: %w", err)
	}

	session := domain.Session{
		ID:      id,
		State:   domain.SessionClosed,
		EndedAt: &at,
	}
	if err := r.exec.QueryRow(ctx, query, args...).Scan(
		&session.CredentialID,
		&session.IP,
		&session.StartedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("close session: %w", err)
	}

	return &session, nil
}

// CloseAllForCredential closes every active session of a credential and
// returns how many were affected.
func (r *SessionRepository) CloseAllForCredential(ctx context.Context, credentialID string, at time.Time) (int, error) {
	query, args, err := psql.Update("sessions").
		Set("state", string(domain.SessionClosed)).
		Set("ended_at", at).
		Where(squirrel.Eq{
			"credential_id": credentialID,
			"state":         string(domain.SessionActive),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build close sessions query: %w", err)
	}

	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("close sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ListActive returns every active session joined with its credential handle.
func (r *SessionRepository) ListActive(ctx context.Context) ([]domain.ActiveSession, error) {
	query, args, err := psql.Select("s.id", "c.handle", "s.ip", "s.started_at").
		From("sessions s").
		Join("credentials c ON c.id = s.credential_id").
		Where(squirrel.Eq{"s.state": string(domain.SessionActive)}).
		OrderBy("s.started_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions query: %w", err)
	}

	rows, err := r.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ActiveSession
	for rows.Next() {
		var session domain.ActiveSession
		if err := rows.Scan(&session.ID, &session.Handle, &session.IP, &session.StartedAt); err != nil {
			return nil, fmt.Errorf("scan active session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active sessions: %w", err)
	}

	return sessions, nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
