package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

// RecoveryRepository persists password recovery requests in PostgreSQL.
type RecoveryRepository struct {
	exec pgExecutor
}

// NewRecoveryRepository builds a repository bound to the provided executor.
func NewRecoveryRepository(exec pgExecutor) *RecoveryRepository {
	return &RecoveryRepository{exec: exec}
}

// WithTx returns a repository bound to the provided transaction.
func (r *RecoveryRepository) WithTx(tx pgx.Tx) *RecoveryRepository {
	return &RecoveryRepository{exec: tx}
}

// Create inserts a new recovery request.
func (r *RecoveryRepository) Create(ctx context.Context, request domain.RecoveryRequest) error {
	query, args, err := psql.Insert("recovery_requests").
		Columns("id", "credential_id", "code", "state", "issued_at", "expires_at").
		Values(request.ID, request.CredentialID, request.Code, string(request.State), request.IssuedAt, request.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert recovery query: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert recovery request: %w", err)
	}

	return nil
}

// GetPendingByCredential fetches the latest pending request for a credential.
func (r *RecoveryRepository) GetPendingByCredential(ctx context.Context, credentialID string) (*domain.RecoveryRequest, error) {
	query, args, err := psql.Select("id", "credential_id", "code", "state", "issued_at", "expires_at").
		From("recovery_requests").
		Where(squirrel.Eq{
			"credential_id": credentialID,
			"state":         string(domain.RecoveryPending),
		}).
		OrderBy("issued_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select recovery query: %w", err)
	}

	var (
		request domain.RecoveryRequest
		state   string
	)
	if err := r.exec.QueryRow(ctx, query, args...).Scan(
		&request.ID,
		&request.CredentialID,
		&request.Code,
		&state,
		&request.IssuedAt,
		&request.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan recovery request: %w", err)
	}

	request.State = domain.RecoveryState(state)
	return &request, nil
}

// UpdateState transitions a recovery request to the given state.
func (r *RecoveryRepository) UpdateState(ctx context.Context, id string, state domain.RecoveryState) error {
	query, args, err := psql.Update("recovery_requests").
		Set("state", string(state)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update recovery query: %w", err)
	}

	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recovery request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.RecoveryRepository = (*RecoveryRepository)(nil)
