package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

// AuditRepository persists administrative audit entries in PostgreSQL.
type AuditRepository struct {
	exec pgExecutor
}

// NewAuditRepository builds a repository bound to the provided executor.
func NewAuditRepository(exec pgExecutor) *AuditRepository {
	return &AuditRepository{exec: exec}
}

// WithTx returns a repository bound to the provided transaction.
func (r *AuditRepository) WithTx(tx pgx.Tx) *AuditRepository {
	return &AuditRepository{exec: tx}
}

// Append stores a new audit entry.
func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	query, args, err := psql.Insert("audit_log").
		Columns("id", "actor", "action", "detail", "occurred_at").
		Values(entry.ID, entry.Actor, entry.Action, entry.Detail, entry.OccurredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit query: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

var _ port.AuditRepository = (*AuditRepository)(nil)
