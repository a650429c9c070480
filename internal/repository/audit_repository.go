package repository

import (
	"context"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, query *AuditQuery) ([]models.AuditLog, int64, error)
}

// AuditQuery extends ListQuery with audit-specific filters
type AuditQuery struct {
	*ListQuery
	UserID uint
	Entity string
	Action string
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditRepository) List(ctx context.Context, query *AuditQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if query.UserID > 0 {
		db = db.Where("user_id = ?", query.UserID)
	}
	if query.Entity != "" {
		db = db.Where("entity = ?", query.Entity)
	}
	if query.Action != "" {
		db = db.Where("action = ?", query.Action)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Preload("User").
		Order("created_at DESC").
		Scopes(Paginate(query.ListQuery)).
		Find(&logs).Error
	return logs, total, err
}
