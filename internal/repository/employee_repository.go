package repository

import (
	"context"
	"errors"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
	FindTechnicians(ctx context.Context) ([]models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Employee, int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("discarded_at IS NULL").
		First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindTechnicians returns active technicians for maintenance assignment
func (r *employeeRepository) FindTechnicians(ctx context.Context) ([]models.Employee, error) {
	var technicians []models.Employee
	err := r.db.WithContext(ctx).
		Where("position = ? AND active = true AND discarded_at IS NULL", models.PositionTechnician).
		Order("full_name ASC").
		Find(&technicians).Error
	return technicians, err
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		if isDuplicateKeyError(err, "employees_identity_key") {
			return errors.New("Ya existe un empleado con este documento de identidad")
		}
		return err
	}
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"discarded_at": gorm.Expr("NOW()"),
			"active":       false,
		}).Error
}

func (r *employeeRepository) List(ctx context.Context, query *ListQuery) ([]models.Employee, int64, error) {
	var employees []models.Employee
	var total int64

	db := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("discarded_at IS NULL")

	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR identity ILIKE ?", term, term)
	}
	if position := query.Filters["position"]; position != "" {
		db = db.Where("position = ?", position)
	}
	if active := query.Filters["active"]; active != "" {
		db = db.Where("active = ?", active == "true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query, map[string]string{
		"full_name": "full_name",
		"hired_at":  "hired_at",
	}, "full_name ASC")

	err := db.Order(order).Scopes(Paginate(query)).Find(&employees).Error
	return employees, total, err
}
