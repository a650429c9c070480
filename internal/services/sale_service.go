package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/statemachine"
	"github.com/jmoncada/servitec-api/pkg/logger"
	"gorm.io/gorm"
)

// SaleService orchestrates the sale lifecycle. A cash sale settles on
// the spot; an installment sale opens a plan and materializes the first
// month of its ledger.
type SaleService struct {
	repo            repository.SaleRepository
	customerRepo    repository.CustomerRepository
	equipmentRepo   repository.EquipmentRepository
	installmentRepo repository.InstallmentRepository
	installmentSvc  *InstallmentService
	schedule        *InstallmentScheduleService
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
	clock           Clock
}

// NewSaleService creates a new sale service
func NewSaleService(
	repo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	equipmentRepo repository.EquipmentRepository,
	installmentRepo repository.InstallmentRepository,
	installmentSvc *InstallmentService,
	schedule *InstallmentScheduleService,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
	clock Clock,
) *SaleService {
	if clock == nil {
		clock = SystemClock
	}
	return &SaleService{
		repo:            repo,
		customerRepo:    customerRepo,
		equipmentRepo:   equipmentRepo,
		installmentRepo: installmentRepo,
		installmentSvc:  installmentSvc,
		schedule:        schedule,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
		clock:           clock,
	}
}

// CreateSaleInput carries the fields needed to register a sale
type CreateSaleInput struct {
	CustomerID  uint
	EquipmentID uint
	EmployeeID  *uint
	Quantity    int
	SaleType    string
	TotalAmount float64
	DownPayment float64
	Note        *string

	// Financing terms, installment sales only
	NumberOfMonths      int
	MonthlyInstallment  float64
	CollectionStartDate time.Time

	ActorID   uint
	IP        string
	UserAgent string
}

// CreateSale registers a sale. Cash sales close immediately; installment
// sales go active with a plan and the first entry of its sequence.
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*models.Sale, error) {
	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	equipment, err := s.equipmentRepo.FindByID(ctx, input.EquipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}
	if equipment.Stock < quantity {
		return nil, ErrOutOfStock
	}

	total := input.TotalAmount
	if total <= 0 {
		total = RoundMoney(equipment.Price * float64(quantity))
	}
	if input.DownPayment < 0 || input.DownPayment > total {
		return nil, ErrInvalidPaidAmount
	}

	now := s.clock.Now()
	sale := &models.Sale{
		CustomerID:  customer.ID,
		EmployeeID:  input.EmployeeID,
		EquipmentID: equipment.ID,
		Quantity:    quantity,
		SaleType:    input.SaleType,
		Status:      models.SaleStatusPending,
		TotalAmount: total,
		DownPayment: RoundMoney(input.DownPayment),
		Currency:    "HNL",
		Note:        input.Note,
		SoldAt:      now,
	}

	if sale.IsCredit() {
		if err := s.validateFinancingTerms(sale, &input); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if err := s.equipmentRepo.AdjustStock(ctx, equipment.ID, -quantity); err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	machine := statemachine.NewSaleFSM(sale)
	if sale.IsCredit() {
		if err := s.openPlan(ctx, sale, &input); err != nil {
			s.undoCreate(ctx, sale, quantity)
			return nil, err
		}
		if err := machine.Activate(ctx); err != nil {
			s.undoCreate(ctx, sale, quantity)
			return nil, err
		}
	} else {
		if err := machine.Close(ctx); err != nil {
			return nil, err
		}
		sale.ClosedAt = &now
	}
	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	s.afterCreate(ctx, sale, customer, input)
	return sale, nil
}

// validateFinancingTerms checks the months/amount pair and fills in the
// monthly installment when the caller left it to be derived.
func (s *SaleService) validateFinancingTerms(sale *models.Sale, input *CreateSaleInput) error {
	if input.NumberOfMonths < 1 {
		return errors.New("el número de meses debe ser mayor a cero")
	}
	financed := sale.FinancedAmount()
	if financed <= 0 {
		return errors.New("una venta al crédito debe financiar un saldo mayor a cero")
	}
	if input.MonthlyInstallment <= 0 {
		input.MonthlyInstallment = RoundMoney(financed / float64(input.NumberOfMonths))
	}
	// The schedule does not have to match the financed remainder to the
	// cent; a mismatch is worth flagging but never blocks the sale.
	scheduled := input.MonthlyInstallment * float64(input.NumberOfMonths)
	if math.Abs(scheduled-financed) > 0.01 {
		logger.Warn(fmt.Sprintf("[SaleService] Plan schedule (L %.2f) does not match financed amount (L %.2f) for customer %d",
			scheduled, financed, sale.CustomerID))
	}
	if input.CollectionStartDate.IsZero() {
		input.CollectionStartDate = NextDueDate(s.clock.Now())
	}
	return nil
}

// openPlan creates the installment plan and its first entry
func (s *SaleService) openPlan(ctx context.Context, sale *models.Sale, input *CreateSaleInput) error {
	plan := &models.InstallmentPlan{
		SaleID:              sale.ID,
		CustomerID:          sale.CustomerID,
		NumberOfMonths:      input.NumberOfMonths,
		MonthlyInstallment:  RoundMoney(input.MonthlyInstallment),
		CollectionStartDate: input.CollectionStartDate,
		CollectionEndDate:   input.CollectionStartDate.AddDate(0, input.NumberOfMonths-1, 0),
	}
	if err := s.installmentRepo.CreatePlan(ctx, plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	if _, err := s.installmentSvc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil); err != nil {
		return fmt.Errorf("failed to open plan ledger: %w", err)
	}
	sale.Plan = plan
	return nil
}

// undoCreate compensates a half-registered credit sale whose plan could
// not be opened: the units go back to stock and the pending sale row is
// cancelled so it never shows up as collectable.
func (s *SaleService) undoCreate(ctx context.Context, sale *models.Sale, quantity int) {
	if err := s.equipmentRepo.AdjustStock(ctx, sale.EquipmentID, quantity); err != nil {
		logger.Error(fmt.Sprintf("[SaleService] Failed to restock equipment %d after aborted sale %d: %v", sale.EquipmentID, sale.ID, err))
	}

	machine := statemachine.NewSaleFSM(sale)
	if err := machine.Cancel(ctx); err != nil {
		logger.Error(fmt.Sprintf("[SaleService] Aborted sale %d not cancellable: %v", sale.ID, err))
		return
	}
	if err := s.repo.Update(ctx, sale); err != nil {
		logger.Error(fmt.Sprintf("[SaleService] Failed to cancel aborted sale %d: %v", sale.ID, err))
	}
}

func (s *SaleService) afterCreate(ctx context.Context, sale *models.Sale, customer *models.Customer, input CreateSaleInput) {
	if s.auditSvc != nil {
		details := fmt.Sprintf("Venta %s de %d unidad(es) por L %.2f a %s",
			sale.SaleType, sale.Quantity, sale.TotalAmount, customer.FullName)
		if err := s.auditSvc.Log(ctx, input.ActorID, "CREATE", "Sale", sale.ID, details, input.IP, input.UserAgent); err != nil {
			logger.Error(fmt.Sprintf("[SaleService] Failed to write audit log: %v", err))
		}
	}

	if s.worker == nil || s.notificationSvc == nil {
		return
	}
	saleID := sale.ID
	total := sale.TotalAmount
	name := customer.FullName
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		message := fmt.Sprintf("Venta #%d registrada: L %.2f para %s", saleID, total, name)
		return s.notificationSvc.NotifyAdmins(ctx, "Nueva venta", message, models.NotificationTypeSaleCreated)
	})
}

// FindByID returns a sale with its customer, equipment and plan loaded
func (s *SaleService) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sale, nil
}

// List returns sales matching the query
func (s *SaleService) List(ctx context.Context, query *repository.SaleQuery) ([]models.Sale, int64, error) {
	return s.repo.List(ctx, query)
}

// GetStats returns aggregate sale figures for the dashboard
func (s *SaleService) GetStats(ctx context.Context) (*repository.SaleStats, error) {
	return s.repo.GetStats(ctx)
}

// Cancel cancels a pending sale and returns its units to stock
func (s *SaleService) Cancel(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	machine := statemachine.NewSaleFSM(sale)
	if err := machine.Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	if err := s.equipmentRepo.AdjustStock(ctx, sale.EquipmentID, sale.Quantity); err != nil {
		logger.Error(fmt.Sprintf("[SaleService] Failed to restock equipment %d after cancelling sale %d: %v", sale.EquipmentID, sale.ID, err))
	}

	if s.auditSvc != nil {
		details := fmt.Sprintf("Venta #%d cancelada", sale.ID)
		if err := s.auditSvc.Log(ctx, actorID, "UPDATE", "Sale", sale.ID, details, ip, userAgent); err != nil {
			logger.Error(fmt.Sprintf("[SaleService] Failed to write audit log: %v", err))
		}
	}
	return sale, nil
}
