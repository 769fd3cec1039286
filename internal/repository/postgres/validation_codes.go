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

// ValidationCodeRepository persists account activation codes in PostgreSQL.
type ValidationCodeRepository struct {
	exec pgExecutor
}

// NewValidationCodeRepository builds a repository bound to the provided executor.
func NewValidationCodeRepository(exec pgExecutor) *ValidationCodeRepository {
	return &ValidationCodeRepository{exec: exec}
}

// WithTx returns a repository bound to the provided transaction.
func (r *ValidationCodeRepository) WithTx(tx pgx.Tx) *ValidationCodeRepository {
	return &ValidationCodeRepository{exec: tx}
}

// Create inserts a new validation code.
func (r *ValidationCodeRepository) Create(ctx context.Context, code domain.ValidationCode) error {
	query, args, err := psql.Insert("validation_codes").
		Columns("id", "credential_id", "code", "state", "issued_at").
		Values(code.ID, code.CredentialID, code.Code, string(code.State), code.IssuedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert validation code query: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert validation code: %w", err)
	}

	return nil
}

// GetPendingByCredential fetches the latest pending code for a credential.
func (r *ValidationCodeRepository) GetPendingByCredential(ctx context.Context, credentialID string) (*domain.ValidationCode, error) {
	query, args, err := psql.Select("id", "credential_id", "code", "state", "issued_at").
		From("validation_codes").
		Where(squirrel.Eq{
			"credential_id": credentialID,
			"state":         string(domain.ValidationCodePending),
		}).
		OrderBy("issued_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select validation code query: %w", err)
	}

	var (
		code  domain.ValidationCode
		state string
	)
	if err := r.exec.QueryRow(ctx, query, args...).Scan(
		&code.ID,
		&code.CredentialID,
		&code.Code,
		&state,
		&code.IssuedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan validation code: %w", err)
	}

	code.State = domain.ValidationCodeState(state)
	return &code, nil
}

// UpdateState transitions a validation code to the given state.
func (r *ValidationCodeRepository) UpdateState(ctx context.Context, id string, state domain.ValidationCodeState) error {
	query, args, err := psql.Update("validation_codes").
		Set("state", string(state)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update validation code query: %w", err)
	}

	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update validation code: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ValidationCodeRepository = (*ValidationCodeRepository)(nil)
