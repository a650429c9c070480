package services

import (
	"github.com/jmoncada/servitec-api/internal/models"
)

// InstallmentScheduleService derives entries from a plan's terms.
// It only builds in-memory values; persistence belongs to the
// installment service, which calls this under its transaction.
type InstallmentScheduleService struct {
	clock Clock
}

// NewInstallmentScheduleService creates a new schedule service
func NewInstallmentScheduleService(clock Clock) *InstallmentScheduleService {
	if clock == nil {
		clock = SystemClock
	}
	return &InstallmentScheduleService{clock: clock}
}

// InitialEntry builds the first entry of a plan: due on the collection
// start date, owing exactly one monthly installment.
func (s *InstallmentScheduleService) InitialEntry(plan *models.InstallmentPlan) *models.InstallmentEntry {
	return &models.InstallmentEntry{
		PlanID:     plan.ID,
		CustomerID: plan.CustomerID,
		AmountDue:  RoundMoney(plan.MonthlyInstallment),
		Status:     models.EntryStatusPending,
		DueDate:    plan.CollectionStartDate,
	}
}

// NextEntry builds the successor of a closed entry: due one month
// later, owing the base installment plus the predecessor's carryover.
func (s *InstallmentScheduleService) NextEntry(plan *models.InstallmentPlan, prev *models.InstallmentEntry) *models.InstallmentEntry {
	return &models.InstallmentEntry{
		PlanID:     plan.ID,
		CustomerID: plan.CustomerID,
		AmountDue:  NextAmountDue(plan.MonthlyInstallment, prev.CarryoverAmount),
		Status:     models.EntryStatusPending,
		DueDate:    NextDueDate(prev.DueDate),
	}
}

// ProjectedSchedule returns the full sequence the plan would produce if
// every month were paid in full. Used for quotes and the plan preview;
// nothing here is persisted.
func (s *InstallmentScheduleService) ProjectedSchedule(plan *models.InstallmentPlan) []models.InstallmentEntry {
	entries := make([]models.InstallmentEntry, 0, plan.NumberOfMonths)
	dueDate := plan.CollectionStartDate
	for i := 0; i < plan.NumberOfMonths; i++ {
		entries = append(entries, models.InstallmentEntry{
			PlanID:     plan.ID,
			CustomerID: plan.CustomerID,
			AmountDue:  RoundMoney(plan.MonthlyInstallment),
			Status:     models.EntryStatusPending,
			DueDate:    dueDate,
		})
		dueDate = NextDueDate(dueDate)
	}
	return entries
}
