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

var credentialColumns = []string{
	"id",
	"handle",
	"password_hash",
	"first_name",
	"last_name",
	"email",
	"phone",
	"state",
	"failed_attempts",
	"created_at",
}

// CredentialRepository persists credentials in PostgreSQL.
type CredentialRepository struct {
	exec pgExecutor
}

// NewCredentialRepository builds a repository bound to the provided executor.
func NewCredentialRepository(exec pgExecutor) *CredentialRepository {
	return &CredentialRepository{exec: exec}
}

// WithTx returns a repository bound to the provided transaction.
func (r *CredentialRepository) WithTx(tx pgx.Tx) *CredentialRepository {
	return &CredentialRepository{exec: tx}
}

// Create inserts a new credential. Unique violations on handle or email are
// reported as repository.ErrDuplicate.
func (r *CredentialRepository) Create(ctx context.Context, credential domain.Credential) error {
	query, args, err := psql.Insert("credentials").
		Columns(credentialColumns...).
		Values(
			credential.ID,
			credential.Handle,
			credential.PasswordHash,
			credential.FirstName,
			credential.LastName,
			credential.Email,
			credential.Phone,
			string(credential.State),
			credential.FailedAttempts,
			credential.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert credential query: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert credential: %w", err)
	}

	return nil
}

// GetByID fetches a credential by its identifier.
func (r *CredentialRepository) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByHandle fetches a credential by login handle.
func (r *CredentialRepository) GetByHandle(ctx context.Context, handle string) (*domain.Credential, error) {
	return r.getBy(ctx, squirrel.Eq{"handle": handle})
}

// GetByEmail fetches a credential by email address.
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *CredentialRepository) getBy(ctx context.Context, pred squirrel.Sqlizer) (*domain.Credential, error) {
	query, args, err := psql.Select(credentialColumns...).
		From("credentials").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential query: %w", err)
	}

	row := r.exec.QueryRow(ctx, query, args...)

	var (
		credential domain.Credential
		state      string
	)
	if err := row.Scan(
		&credential.ID,
		&credential.Handle,
		&credential.PasswordHash,
		&credential.FirstName,
		&credential.LastName,
		&credential.Email,
		&credential.Phone,
		&state,
		&credential.FailedAttempts,
		&credential.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}

	credential.State = domain.CredentialState(state)
	return &credential, nil
}

// List returns all credentials ordered by creation time.
func (r *CredentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	query, args, err := psql.Select(credentialColumns...).
		From("credentials").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list credentials query: %w", err)
	}

	rows, err := r.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var credentials []domain.Credential
	for rows.Next() {
		var (
			credential domain.Credential
			state      string
		)
		if err := rows.Scan(
			&credential.ID,
			&credential.Handle,
			&credential.PasswordHash,
			&credential.FirstName,
			&credential.LastName,
			&credential.Email,
			&credential.Phone,
			&state,
			&credential.FailedAttempts,
			&credential.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		credential.State = domain.CredentialState(state)
		credentials = append(credentials, credential)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return credentials, nil
}

// UpdateState sets the lifecycle state of a credential.
func (r *CredentialRepository) UpdateState(ctx context.Context, id string, state domain.CredentialState) error {
	query, args, err := psql.Update("credentials").
		Set("state", string(state)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update credential state query: %w", err)
	}

	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update credential state: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query, args, err := psql.Update("credentials").
		Set("password_hash", hash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password hash query: %w", err)
	}

	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// IncrementFailedAttempts bumps the failure counter in a single statement so
// concurrent logins cannot lose updates, and returns the new value.
func (r *CredentialRepository) IncrementFailedAttempts(ctx context.Context, id string) (int, error) {
	query, args, err := psql.Update("credentials").
		Set("failed_attempts", squirrel.Expr("failed_attempts + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING failed_attempts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build increment attempts query: %w", err)
	}

	var attempts int
	if err := r.exec.QueryRow(ctx, query, args...).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("increment failed attempts: %w", err)
	}

	return attempts, nil
}

// ResetFailedAttempts sets the failure counter back to zero.
func (r *CredentialRepository) ResetFailedAttempts(ctx context.Context, id string) error {
	query, args, err := psql.Update("credentials").
		Set("failed_attempts", 0).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reset attempts query: %w", err)
	}

	tag, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reset failed attempts: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.CredentialRepository = (*CredentialRepository)(nil)
