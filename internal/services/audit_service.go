package services

import (
	"context"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
)

// AuditService records who did what to which record
type AuditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry
func (s *AuditService) Log(ctx context.Context, userID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	logEntry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	return s.repo.Create(ctx, logEntry)
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.AuditQuery) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, query)
}
