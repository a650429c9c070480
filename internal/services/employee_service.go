package services

import (
	"context"
	"errors"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"gorm.io/gorm"
)

// EmployeeService manages the staff roster
type EmployeeService struct {
	repo repository.EmployeeRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(repo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

func (s *EmployeeService) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, employee *models.Employee) error {
	return s.repo.Create(ctx, employee)
}

// UpdateEmployeeInput carries optional profile changes
type UpdateEmployeeInput struct {
	FullName *string
	Position *string
	Phone    *string
	Email    *string
	Salary   *float64
	Active   *bool
}

func (s *EmployeeService) Update(ctx context.Context, id uint, input UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		employee.FullName = *input.FullName
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.Email != nil {
		employee.Email = *input.Email
	}
	if input.Salary != nil {
		employee.Salary = *input.Salary
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) SoftDelete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, query *repository.ListQuery) ([]models.Employee, int64, error) {
	return s.repo.List(ctx, query)
}

// Technicians returns the active technicians for assignment dropdowns
func (s *EmployeeService) Technicians(ctx context.Context) ([]models.Employee, error) {
	return s.repo.FindTechnicians(ctx)
}
