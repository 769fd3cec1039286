package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

// AccessLogRepository persists login-path outcomes in PostgreSQL. The table
// is append-only.
type AccessLogRepository struct {
	exec pgExecutor
}

// NewAccessLogRepository builds a repository bound to the provided executor.
func NewAccessLogRepository(exec pgExecutor) *AccessLogRepository {
	return &AccessLogRepository{exec: exec}
}

// WithTx returns a repository bound to the provided transaction.
func (r *AccessLogRepository) WithTx(tx pgx.Tx) *AccessLogRepository {
	return &AccessLogRepository{exec: tx}
}

// Append stores a new access log entry.
func (r *AccessLogRepository) Append(ctx context.Context, entry domain.AccessLogEntry) error {
	query, args, err := psql.Insert("access_log").
		Columns("id", "handle", "ip", "result", "access_type", "occurred_at").
		Values(entry.ID, entry.Handle, entry.IP, entry.Result, entry.AccessType, entry.OccurredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert access log query: %w", err)
	}

	if _, err := r.exec.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert access log entry: %w", err)
	}

	return nil
}

// Latest returns the most recent entries, newest first.
func (r *AccessLogRepository) Latest(ctx context.Context, limit int) ([]domain.AccessLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := psql.Select("id", "handle", "ip", "result", "access_type", "occurred_at").
		From("access_log").
		OrderBy("occurred_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select access log query: %w", err)
	}

	rows, err := r.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list access log: %w", err)
	}
	defer rows.Close()

	var entries []domain.AccessLogEntry
	for rows.Next() {
		var entry domain.AccessLogEntry
		if err := rows.Scan(&entry.ID, &entry.Handle, &entry.IP, &entry.Result, &entry.AccessType, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan access log entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access log: %w", err)
	}

	return entries, nil
}

var _ port.AccessLogRepository = (*AccessLogRepository)(nil)
