package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/statemachine"
	"github.com/jmoncada/servitec-api/pkg/logger"
)

// InstallmentService owns the collection ledger: one entry per month,
// grown one entry at a time as each predecessor closes. All writes to
// a plan's sequence run under a transaction with the collected entry
// row-locked, so two cashiers can never double-collect or race a
// duplicate successor into existence.
type InstallmentService struct {
	repo            repository.InstallmentRepository
	saleRepo        repository.SaleRepository
	schedule        *InstallmentScheduleService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
	clock           Clock
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(
	repo repository.InstallmentRepository,
	saleRepo repository.SaleRepository,
	schedule *InstallmentScheduleService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
	clock Clock,
) *InstallmentService {
	if clock == nil {
		clock = SystemClock
	}
	return &InstallmentService{
		repo:            repo,
		saleRepo:        saleRepo,
		schedule:        schedule,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
		clock:           clock,
	}
}

// CollectInput carries one collection against an entry. Amount is the
// total collected for the entry: re-collecting a partial tail replaces
// the earlier figure instead of accumulating on top of it.
type CollectInput struct {
	EntryID   uint
	Amount    float64
	Note      *string
	ActorID   uint
	IP        string
	UserAgent string
}

// ApplyPayment records a collection against an entry and maintains the
// sequence: it closes the entry as paid or partial, snapshots the
// shortfall, and creates or regenerates the following month so its
// amount due always reflects the predecessor's carryover.
func (s *InstallmentService) ApplyPayment(ctx context.Context, input CollectInput) (*models.InstallmentEntry, error) {
	var collected *models.InstallmentEntry
	var plan *models.InstallmentPlan
	var planCompleted bool

	err := s.repo.Atomic(ctx, func(tx repository.InstallmentRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, input.EntryID)
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if entry == nil {
			return ErrNotFound
		}
		if entry.Status == models.EntryStatusPaid {
			return ErrEntryImmutable
		}
		if !ValidPaidAmount(entry.AmountDue, input.Amount) {
			return ErrInvalidPaidAmount
		}

		plan, err = tx.GetPlan(ctx, entry.PlanID)
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if plan == nil {
			return ErrPlanIntegrity
		}

		entries, err := tx.FindEntriesByPlan(ctx, entry.PlanID)
		if err != nil {
			return fmt.Errorf("failed to load plan entries: %w", err)
		}

		// A partial entry is only re-collectable while it is still the
		// chronological tail of closed history.
		if entry.Status == models.EntryStatusPartial {
			for _, e := range entries {
				if e.ID != entry.ID && e.Closed() && e.DueDate.After(entry.DueDate) {
					return ErrNotTailEntry
				}
			}
		}

		// Locate the single pending successor, if one was already
		// materialized by an earlier partial collection.
		var successor *models.InstallmentEntry
		for i := range entries {
			e := &entries[i]
			if e.ID == entry.ID || !e.DueDate.After(entry.DueDate) {
				continue
			}
			if successor != nil {
				return ErrPlanIntegrity
			}
			successor = e
		}

		machine := statemachine.NewInstallmentFSM(entry)
		if EntryStatusFor(entry.AmountDue, input.Amount) == models.EntryStatusPaid {
			err = machine.CollectFull(ctx)
		} else {
			err = machine.CollectPartial(ctx)
		}
		if err != nil {
			return fmt.Errorf("cannot collect entry: %w", err)
		}

		now := s.clock.Now()
		entry.AmountPaid = RoundMoney(input.Amount)
		entry.CarryoverAmount = CarryoverFor(entry.AmountDue, input.Amount)
		entry.OverdueAmount = OverdueSnapshotFor(entry.Status, entry.CarryoverAmount)
		entry.PaymentDate = &now
		if input.Note != nil {
			entry.Notes = input.Note
		}

		if err := tx.UpdateEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		closedCount := 0
		for _, e := range entries {
			if e.ID == entry.ID || e.Closed() {
				closedCount++
			}
		}

		if closedCount < plan.NumberOfMonths {
			next := s.schedule.NextEntry(plan, entry)
			if successor != nil {
				// Regenerate in place so the plan never holds two
				// pending months for the same slot.
				successor.AmountDue = next.AmountDue
				successor.DueDate = next.DueDate
				if err := tx.UpdateEntry(ctx, successor); err != nil {
					return fmt.Errorf("failed to regenerate successor: %w", err)
				}
			} else {
				if err := tx.CreateEntry(ctx, next); err != nil {
					return fmt.Errorf("failed to create successor: %w", err)
				}
			}
		} else if entry.Status == models.EntryStatusPaid {
			planCompleted = true
		}

		collected = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCollection(ctx, plan, collected, input, planCompleted)
	return collected, nil
}

// afterCollection runs the non-transactional side effects of a
// collection: audit trail, notifications, receipt email, and closing
// the sale when the plan just completed.
func (s *InstallmentService) afterCollection(ctx context.Context, plan *models.InstallmentPlan, entry *models.InstallmentEntry, input CollectInput, planCompleted bool) {
	if s.auditSvc != nil {
		details := fmt.Sprintf("Cobro de L %.2f sobre la cuota #%d (plan #%d, estado %s)",
			entry.AmountPaid, entry.ID, plan.ID, entry.Status)
		if err := s.auditSvc.Log(ctx, input.ActorID, "COLLECT", "InstallmentEntry", entry.ID, details, input.IP, input.UserAgent); err != nil {
			logger.Error(fmt.Sprintf("[InstallmentService] Failed to write audit log: %v", err))
		}
	}

	if planCompleted {
		s.closeCompletedSale(ctx, plan)
	}

	if s.worker == nil {
		return
	}
	entryID := entry.ID
	planID := plan.ID
	amount := entry.AmountPaid
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if s.notificationSvc != nil {
			title := "Pago recibido"
			message := fmt.Sprintf("Se registró un cobro de L %.2f sobre la cuota #%d del plan #%d", amount, entryID, planID)
			if planCompleted {
				title = "Plan completado"
				message = fmt.Sprintf("El plan #%d completó su cobranza con el pago de la cuota #%d", planID, entryID)
			}
			notifType := models.NotificationTypePaymentReceived
			if planCompleted {
				notifType = models.NotificationTypePlanCompleted
			}
			if err := s.notificationSvc.NotifyAdmins(ctx, title, message, notifType); err != nil {
				return err
			}
		}
		if s.emailSvc != nil {
			return s.emailSvc.SendPaymentReceipt(ctx, plan, entry)
		}
		return nil
	})
}

// closeCompletedSale moves the backing sale to closed once the last
// month of the plan has been fully collected.
func (s *InstallmentService) closeCompletedSale(ctx context.Context, plan *models.InstallmentPlan) {
	sale, err := s.saleRepo.FindByID(ctx, plan.SaleID)
	if err != nil {
		logger.Error(fmt.Sprintf("[InstallmentService] Failed to load sale %d for completed plan %d: %v", plan.SaleID, plan.ID, err))
		return
	}

	machine := statemachine.NewSaleFSM(sale)
	if err := machine.Close(ctx); err != nil {
		logger.Warn(fmt.Sprintf("[InstallmentService] Sale %d not closeable after plan %d completion: %v", sale.ID, plan.ID, err))
		return
	}

	now := s.clock.Now()
	sale.ClosedAt = &now
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		logger.Error(fmt.Sprintf("[InstallmentService] Failed to close sale %d: %v", sale.ID, err))
	}
}

// CreateInitialEntry materializes the first month of a plan that has no
// entries yet. The customer must be the plan's own; the caller states it
// explicitly so a ledger is never opened against the wrong account. An
// optional amountPaid collects the entry in the same transaction, which
// also materializes the second month when the plan has more months to run.
func (s *InstallmentService) CreateInitialEntry(ctx context.Context, planID, customerID uint, amountPaid float64, note *string) (*models.InstallmentEntry, error) {
	var created *models.InstallmentEntry

	err := s.repo.Atomic(ctx, func(tx repository.InstallmentRepository) error {
		plan, err := tx.GetPlan(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if plan == nil {
			return ErrNotFound
		}
		if customerID != plan.CustomerID {
			return ErrCustomerMismatch
		}

		count, err := tx.CountEntries(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to count entries: %w", err)
		}
		if count > 0 {
			return ErrPlanHasEntries
		}

		entry := s.schedule.InitialEntry(plan)
		if note != nil {
			entry.Notes = note
		}

		if amountPaid > 0 {
			if !ValidPaidAmount(entry.AmountDue, amountPaid) {
				return ErrInvalidPaidAmount
			}
			now := s.clock.Now()
			entry.Status = EntryStatusFor(entry.AmountDue, amountPaid)
			entry.AmountPaid = RoundMoney(amountPaid)
			entry.CarryoverAmount = CarryoverFor(entry.AmountDue, amountPaid)
			entry.OverdueAmount = OverdueSnapshotFor(entry.Status, entry.CarryoverAmount)
			entry.PaymentDate = &now
		}

		if err := tx.CreateEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to create initial entry: %w", err)
		}

		if entry.Closed() && plan.NumberOfMonths > 1 {
			next := s.schedule.NextEntry(plan, entry)
			if err := tx.CreateEntry(ctx, next); err != nil {
				return fmt.Errorf("failed to create successor: %w", err)
			}
		}

		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteEntry removes an entry that never received a payment attempt.
// Anything with collection history is append-only.
func (s *InstallmentService) DeleteEntry(ctx context.Context, entryID uint, actorID uint, ip, userAgent string) error {
	err := s.repo.Atomic(ctx, func(tx repository.InstallmentRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if entry == nil {
			return ErrNotFound
		}
		if !entry.Untouched() {
			return ErrEntryImmutable
		}
		return tx.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		return err
	}

	if s.auditSvc != nil {
		details := fmt.Sprintf("Cuota #%d eliminada", entryID)
		if err := s.auditSvc.Log(ctx, actorID, "DELETE", "InstallmentEntry", entryID, details, ip, userAgent); err != nil {
			logger.Error(fmt.Sprintf("[InstallmentService] Failed to write audit log: %v", err))
		}
	}
	return nil
}

// GetEntry returns one entry by ID
func (s *InstallmentService) GetEntry(ctx context.Context, entryID uint) (*models.InstallmentEntry, error) {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// GetPlan returns one plan by ID
func (s *InstallmentService) GetPlan(ctx context.Context, planID uint) (*models.InstallmentPlan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	return plan, nil
}

// ListEntries returns entries matching the query
func (s *InstallmentService) ListEntries(ctx context.Context, query *repository.EntryQuery) ([]models.InstallmentEntry, int64, error) {
	return s.repo.ListEntries(ctx, query)
}

// ProjectedSchedule previews the full sequence a plan would produce if
// every month were paid on time and in full.
func (s *InstallmentService) ProjectedSchedule(ctx context.Context, planID uint) ([]models.InstallmentEntry, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.schedule.ProjectedSchedule(plan), nil
}

// PlanSummary aggregates a plan's collection state
type PlanSummary struct {
	Plan             models.InstallmentPlanResponse   `json:"plan"`
	TotalScheduled   float64                          `json:"total_scheduled"`
	TotalCollected   float64                          `json:"total_collected"`
	Outstanding      float64                          `json:"outstanding"`
	CurrentCarryover float64                          `json:"current_carryover"`
	PercentagePaid   float64                          `json:"percentage_paid"`
	PaidCount        int                              `json:"paid_count"`
	PartialCount     int                              `json:"partial_count"`
	PendingCount     int                              `json:"pending_count"`
	OverdueCount     int                              `json:"overdue_count"`
	RemainingMonths  int                              `json:"remaining_months"`
	NextDueDate      *time.Time                       `json:"next_due_date"`
	Completed        bool                             `json:"completed"`
	Entries          []models.InstallmentEntryResponse `json:"entries"`
}

// BuildPlanSummary computes a summary from a plan and its ordered
// entries. Pure function; now is injected so overdue counts are
// reproducible.
func BuildPlanSummary(plan *models.InstallmentPlan, entries []models.InstallmentEntry, now time.Time) *PlanSummary {
	summary := &PlanSummary{
		Plan:           plan.ToResponse(),
		TotalScheduled: plan.TotalScheduled(),
		Entries:        make([]models.InstallmentEntryResponse, 0, len(entries)),
	}

	closedCount := 0
	for i := range entries {
		e := &entries[i]
		summary.TotalCollected += e.AmountPaid
		switch e.Status {
		case models.EntryStatusPaid:
			summary.PaidCount++
			closedCount++
		case models.EntryStatusPartial:
			summary.PartialCount++
			closedCount++
		default:
			summary.PendingCount++
			if summary.NextDueDate == nil {
				due := e.DueDate
				summary.NextDueDate = &due
			}
		}
		if e.IsLateAt(now) {
			summary.OverdueCount++
		}
		summary.Entries = append(summary.Entries, e.ToResponse())
	}

	summary.TotalCollected = RoundMoney(summary.TotalCollected)
	outstanding := summary.TotalScheduled - summary.TotalCollected
	if outstanding < 0 {
		outstanding = 0
	}
	summary.Outstanding = RoundMoney(outstanding)

	// Only fully paid months count as progress; a partial month is still open.
	summary.RemainingMonths = plan.NumberOfMonths - summary.PaidCount
	if summary.RemainingMonths < 0 {
		summary.RemainingMonths = 0
	}
	if summary.TotalScheduled > 0 {
		summary.PercentagePaid = RoundMoney(summary.TotalCollected / summary.TotalScheduled * 100)
	}

	// The live shortfall is whatever the chronologically last closed
	// entry left behind.
	if n := len(entries); n > 0 {
		tail := entries[n-1]
		if tail.Status == models.EntryStatusPartial {
			summary.CurrentCarryover = tail.CarryoverAmount
		}
	}

	summary.Completed = closedCount == plan.NumberOfMonths &&
		summary.PartialCount == 0 && summary.PendingCount == 0
	return summary
}

// GetPlanSummary loads a plan with its entries and aggregates its
// collection state.
func (s *InstallmentService) GetPlanSummary(ctx context.Context, planID uint) (*PlanSummary, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.FindEntriesByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return BuildPlanSummary(plan, entries, s.clock.Now()), nil
}

// CheckOverdueEntries scans for pending entries past their due date and
// notifies the back office. Lateness is derived from the clock on every
// scan, so the job is idempotent and safe to re-run.
func (s *InstallmentService) CheckOverdueEntries(ctx context.Context) (int, error) {
	entries, err := s.repo.FindOverdueEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to scan overdue entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	for _, entry := range entries {
		name := entry.Customer.FullName
		if name == "" {
			name = fmt.Sprintf("cliente #%d", entry.CustomerID)
		}
		message := fmt.Sprintf("La cuota #%d de %s venció el %s (%d días de atraso, L %.2f pendiente)",
			entry.ID, name, entry.DueDate.Format("02/01/2006"), entry.OverdueDaysAt(s.clock.Now()), entry.AmountDue)
		if s.notificationSvc != nil {
			if err := s.notificationSvc.NotifyAdmins(ctx, "Cuota vencida", message, models.NotificationTypeEntryOverdue); err != nil {
				logger.Error(fmt.Sprintf("[InstallmentService] Failed to notify overdue entry %d: %v", entry.ID, err))
			}
		}
	}

	logger.Info(fmt.Sprintf("[InstallmentService] Overdue scan found %d late entries", len(entries)))
	return len(entries), nil
}
