package services

import (
	"testing"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *models.InstallmentPlan {
	return &models.InstallmentPlan{
		ID:                  7,
		SaleID:              3,
		CustomerID:          11,
		NumberOfMonths:      3,
		MonthlyInstallment:  1000,
		CollectionStartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestInitialEntry(t *testing.T) {
	svc := NewInstallmentScheduleService(nil)
	plan := testPlan()

	entry := svc.InitialEntry(plan)

	assert.Equal(t, plan.ID, entry.PlanID)
	assert.Equal(t, plan.CustomerID, entry.CustomerID)
	assert.Equal(t, 1000.0, entry.AmountDue)
	assert.Equal(t, models.EntryStatusPending, entry.Status)
	assert.Equal(t, plan.CollectionStartDate, entry.DueDate)
}

func TestNextEntryCarriesShortfallForward(t *testing.T) {
	svc := NewInstallmentScheduleService(nil)
	plan := testPlan()

	prev := &models.InstallmentEntry{
		PlanID:          plan.ID,
		CustomerID:      plan.CustomerID,
		AmountDue:       1000,
		AmountPaid:      600,
		CarryoverAmount: 400,
		Status:          models.EntryStatusPartial,
		DueDate:         plan.CollectionStartDate,
	}

	next := svc.NextEntry(plan, prev)

	assert.Equal(t, 1400.0, next.AmountDue)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), next.DueDate)
	assert.Equal(t, models.EntryStatusPending, next.Status)
}

func TestProjectedSchedule(t *testing.T) {
	svc := NewInstallmentScheduleService(nil)
	plan := testPlan()

	schedule := svc.ProjectedSchedule(plan)

	require.Len(t, schedule, 3)
	for i, entry := range schedule {
		assert.Equal(t, 1000.0, entry.AmountDue)
		assert.Equal(t, models.EntryStatusPending, entry.Status)
		assert.Equal(t, plan.CollectionStartDate.AddDate(0, i, 0), entry.DueDate)
	}
}
