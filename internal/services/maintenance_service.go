package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/storage"
	"github.com/jmoncada/servitec-api/pkg/logger"
	"gorm.io/gorm"
)

// MaintenanceService manages scheduled service visits
type MaintenanceService struct {
	repo            repository.MaintenanceRepository
	customerRepo    repository.CustomerRepository
	serviceItemRepo repository.ServiceItemRepository
	employeeRepo    repository.EmployeeRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	storage         *storage.LocalStorage
	worker          *jobs.Worker
	clock           Clock
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	repo repository.MaintenanceRepository,
	customerRepo repository.CustomerRepository,
	serviceItemRepo repository.ServiceItemRepository,
	employeeRepo repository.EmployeeRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	storage *storage.LocalStorage,
	worker *jobs.Worker,
	clock Clock,
) *MaintenanceService {
	if clock == nil {
		clock = SystemClock
	}
	return &MaintenanceService{
		repo:            repo,
		customerRepo:    customerRepo,
		serviceItemRepo: serviceItemRepo,
		employeeRepo:    employeeRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		storage:         storage,
		worker:          worker,
		clock:           clock,
	}
}

// ScheduleInput carries the fields needed to schedule a visit
type ScheduleInput struct {
	CustomerID    uint
	ServiceItemID uint
	TechnicianID  *uint
	ScheduledFor  time.Time
}

// Schedule creates a maintenance order
func (s *MaintenanceService) Schedule(ctx context.Context, input ScheduleInput) (*models.MaintenanceOrder, error) {
	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.serviceItemRepo.FindByID(ctx, input.ServiceItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if input.TechnicianID != nil {
		technician, err := s.employeeRepo.FindByID(ctx, *input.TechnicianID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if technician.Position != models.PositionTechnician {
			return nil, errors.New("el empleado asignado no es técnico")
		}
	}

	order := &models.MaintenanceOrder{
		CustomerID:    input.CustomerID,
		ServiceItemID: input.ServiceItemID,
		TechnicianID:  input.TechnicianID,
		Status:        models.MaintenanceStatusScheduled,
		ScheduledFor:  input.ScheduledFor,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID returns one maintenance order
func (s *MaintenanceService) FindByID(ctx context.Context, id uint) (*models.MaintenanceOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// AssignTechnician assigns or reassigns the visit's technician
func (s *MaintenanceService) AssignTechnician(ctx context.Context, id, technicianID uint) (*models.MaintenanceOrder, error) {
	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.MayComplete() {
		return nil, ErrInvalidState
	}

	technician, err := s.employeeRepo.FindByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if technician.Position != models.PositionTechnician {
		return nil, errors.New("el empleado asignado no es técnico")
	}

	order.TechnicianID = &technicianID
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkInRoute flags the technician as on the way
func (s *MaintenanceService) MarkInRoute(ctx context.Context, id uint) (*models.MaintenanceOrder, error) {
	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.MaintenanceStatusScheduled {
		return nil, ErrInvalidState
	}
	order.Status = models.MaintenanceStatusInRoute
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Complete closes the visit with the technician's diagnosis
func (s *MaintenanceService) Complete(ctx context.Context, id uint, diagnosis string) (*models.MaintenanceOrder, error) {
	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.MayComplete() {
		return nil, ErrInvalidState
	}

	now := s.clock.Now()
	order.Status = models.MaintenanceStatusCompleted
	order.CompletedAt = &now
	if diagnosis != "" {
		order.Diagnosis = &diagnosis
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel cancels an open visit
func (s *MaintenanceService) Cancel(ctx context.Context, id uint) (*models.MaintenanceOrder, error) {
	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.MayComplete() {
		return nil, ErrInvalidState
	}
	order.Status = models.MaintenanceStatusCancelled
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AddEvidence stores an uploaded photo against the order
func (s *MaintenanceService) AddEvidence(ctx context.Context, id uint, file multipart.File, header *multipart.FileHeader) (*models.MaintenanceOrder, error) {
	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.Upload(file, header, "evidence")
	if err != nil {
		return nil, fmt.Errorf("failed to store evidence: %w", err)
	}

	order.AddEvidence(path)
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns maintenance orders matching the query
func (s *MaintenanceService) List(ctx context.Context, query *repository.MaintenanceQuery) ([]models.MaintenanceOrder, int64, error) {
	return s.repo.List(ctx, query)
}

// TechnicianAgenda returns a technician's visits for one day
func (s *MaintenanceService) TechnicianAgenda(ctx context.Context, technicianID uint, day time.Time) ([]models.MaintenanceOrder, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	return s.repo.FindByTechnician(ctx, technicianID, from, to)
}

// SendReminders emails customers with visits inside the next 24 hours.
// Runs from the scheduler; failures are logged per order so one bad
// address never blocks the rest of the batch.
func (s *MaintenanceService) SendReminders(ctx context.Context) (int, error) {
	deadline := s.clock.Now().Add(24 * time.Hour)
	orders, err := s.repo.FindDueBefore(ctx, deadline)
	if err != nil {
		return 0, fmt.Errorf("failed to scan upcoming visits: %w", err)
	}

	sent := 0
	for i := range orders {
		order := orders[i]
		if s.emailSvc != nil {
			if err := s.emailSvc.SendMaintenanceReminder(ctx, &order); err != nil {
				logger.Error(fmt.Sprintf("[MaintenanceService] Reminder failed for order %d: %v", order.ID, err))
				continue
			}
		}
		if s.notificationSvc != nil {
			message := fmt.Sprintf("Visita #%d para %s programada el %s",
				order.ID, order.Customer.FullName, order.ScheduledFor.Format("02/01/2006 15:04"))
			if err := s.notificationSvc.NotifyAdmins(ctx, "Visita próxima", message, models.NotificationTypeMaintenanceDue); err != nil {
				logger.Error(fmt.Sprintf("[MaintenanceService] Notify failed for order %d: %v", order.ID, err))
			}
		}
		sent++
	}
	return sent, nil
}
