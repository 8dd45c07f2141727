package service

import (
	"context"

	"github.com/fundloop/fundloop/internal/audit"
	"github.com/fundloop/fundloop/internal/models"
)

// AuditLog returns the most recent privileged actions, newest first.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return audit.List(ctx, s.db, limit)
}
