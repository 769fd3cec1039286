package usecase

import (
	"context"
	"fmt"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

const accessLogPageSize = 100

// AuditService serves the access-log listing.
type AuditService struct {
	repos port.RepositorySet
}

// NewAuditService builds the audit read use case.
func NewAuditService(repos port.RepositorySet) *AuditService {
	return &AuditService{repos: repos}
}

// LatestAccess returns the most recent access-log entries, newest first.
func (s *AuditService) LatestAccess(ctx context.Context) ([]domain.AccessLogEntry, error) {
	entries, err := s.repos.AccessLog.Latest(ctx, accessLogPageSize)
	if err != nil {
		return nil, fmt.Errorf("load access log: %w", err)
	}
	return entries, nil
}
