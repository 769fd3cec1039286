package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

// psql builds statements with PostgreSQL dollar placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// pgExecutor captures the query surface shared by pgxpool.Pool and pgx.Tx.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// NewRepositorySet binds every repository to the provided executor.
func NewRepositorySet(exec pgExecutor) port.RepositorySet {
	return port.RepositorySet{
		Credentials:     NewCredentialRepository(exec),
		ValidationCodes: NewValidationCodeRepository(exec),
		Sessions:        NewSessionRepository(exec),
		Recoveries:      NewRecoveryRepository(exec),
		AccessLog:       NewAccessLogRepository(exec),
		Audit:           NewAuditRepository(exec),
	}
}

// TxManager runs unit-of-work functions against pool transactions.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a transaction manager for the pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithinTx begins a transaction, binds all repositories to it, and commits
// when fn returns nil.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.RepositorySet) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, NewRepositorySet(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback tx: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

var _ port.TxManager = (*TxManager)(nil)
