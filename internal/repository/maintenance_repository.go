package repository

import (
	"context"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// MaintenanceRepository defines the interface for maintenance order data access
type MaintenanceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.MaintenanceOrder, error)
	FindByTechnician(ctx context.Context, technicianID uint, from, to time.Time) ([]models.MaintenanceOrder, error)
	FindDueBefore(ctx context.Context, deadline time.Time) ([]models.MaintenanceOrder, error)
	Create(ctx context.Context, order *models.MaintenanceOrder) error
	Update(ctx context.Context, order *models.MaintenanceOrder) error
	List(ctx context.Context, query *MaintenanceQuery) ([]models.MaintenanceOrder, int64, error)
}

// MaintenanceQuery extends ListQuery with maintenance-specific filters
type MaintenanceQuery struct {
	*ListQuery
	CustomerID   uint
	TechnicianID uint
	Status       string
}

type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) FindByID(ctx context.Context, id uint) (*models.MaintenanceOrder, error) {
	var order models.MaintenanceOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("ServiceItem").
		Preload("Technician").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *maintenanceRepository) FindByTechnician(ctx context.Context, technicianID uint, from, to time.Time) ([]models.MaintenanceOrder, error) {
	var orders []models.MaintenanceOrder
	err := r.db.WithContext(ctx).
		Where("technician_id = ? AND scheduled_for BETWEEN ? AND ?", technicianID, from, to).
		Preload("Customer").
		Preload("ServiceItem").
		Order("scheduled_for ASC").
		Find(&orders).Error
	return orders, err
}

// FindDueBefore returns open orders scheduled before the deadline,
// used by the reminder job.
func (r *maintenanceRepository) FindDueBefore(ctx context.Context, deadline time.Time) ([]models.MaintenanceOrder, error) {
	var orders []models.MaintenanceOrder
	err := r.db.WithContext(ctx).
		Where("status IN ? AND scheduled_for <= ?",
			[]string{models.MaintenanceStatusScheduled, models.MaintenanceStatusInRoute}, deadline).
		Preload("Customer").
		Preload("ServiceItem").
		Preload("Technician").
		Order("scheduled_for ASC").
		Find(&orders).Error
	return orders, err
}

func (r *maintenanceRepository) Create(ctx context.Context, order *models.MaintenanceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *maintenanceRepository) Update(ctx context.Context, order *models.MaintenanceOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *maintenanceRepository) List(ctx context.Context, query *MaintenanceQuery) ([]models.MaintenanceOrder, int64, error) {
	var orders []models.MaintenanceOrder
	var total int64

	db := r.db.WithContext(ctx).Model(&models.MaintenanceOrder{})

	if query.CustomerID > 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.TechnicianID > 0 {
		db = db.Where("technician_id = ?", query.TechnicianID)
	}
	if query.Status != "" {
		db = db.Where("maintenance_orders.status = ?", query.Status)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Joins("Customer").
			Where("\"Customer\".full_name ILIKE ?", term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query.ListQuery, map[string]string{
		"scheduled_for": "scheduled_for",
		"created_at":    "maintenance_orders.created_at",
	}, "scheduled_for ASC")

	err := db.
		Preload("Customer").
		Preload("ServiceItem").
		Preload("Technician").
		Order(order).
		Scopes(Paginate(query.ListQuery)).
		Find(&orders).Error
	return orders, total, err
}
