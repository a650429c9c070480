package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedgerRepo is an in-memory InstallmentRepository. Atomic runs the
// callback against the same store; transactional isolation is covered
// by the real repository, not here.
type fakeLedgerRepo struct {
	plans   map[uint]*models.InstallmentPlan
	entries map[uint]*models.InstallmentEntry
	nextID  uint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		plans:   make(map[uint]*models.InstallmentPlan),
		entries: make(map[uint]*models.InstallmentEntry),
		nextID:  1,
	}
}

func (r *fakeLedgerRepo) CreatePlan(_ context.Context, plan *models.InstallmentPlan) error {
	if plan.ID == 0 {
		plan.ID = r.nextID
		r.nextID++
	}
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) GetPlan(_ context.Context, planID uint) (*models.InstallmentPlan, error) {
	plan, ok := r.plans[planID]
	if !ok {
		return nil, nil
	}
	copied := *plan
	return &copied, nil
}

func (r *fakeLedgerRepo) GetPlanBySale(_ context.Context, saleID uint) (*models.InstallmentPlan, error) {
	for _, plan := range r.plans {
		if plan.SaleID == saleID {
			copied := *plan
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) FindEntriesByPlan(_ context.Context, planID uint) ([]models.InstallmentEntry, error) {
	var result []models.InstallmentEntry
	for _, e := range r.entries {
		if e.PlanID == planID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (r *fakeLedgerRepo) GetEntry(_ context.Context, entryID uint) (*models.InstallmentEntry, error) {
	entry, ok := r.entries[entryID]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeLedgerRepo) GetEntryForUpdate(ctx context.Context, entryID uint) (*models.InstallmentEntry, error) {
	return r.GetEntry(ctx, entryID)
}

func (r *fakeLedgerRepo) CreateEntry(_ context.Context, entry *models.InstallmentEntry) error {
	if entry.ID == 0 {
		entry.ID = r.nextID
		r.nextID++
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) UpdateEntry(_ context.Context, entry *models.InstallmentEntry) error {
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeLedgerRepo) DeleteEntry(_ context.Context, entryID uint) error {
	delete(r.entries, entryID)
	return nil
}

func (r *fakeLedgerRepo) CountEntries(_ context.Context, planID uint) (int64, error) {
	var count int64
	for _, e := range r.entries {
		if e.PlanID == planID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLedgerRepo) FindOverdueEntries(_ context.Context) ([]models.InstallmentEntry, error) {
	var result []models.InstallmentEntry
	for _, e := range r.entries {
		if e.IsLate() {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) ListEntries(ctx context.Context, query *repository.EntryQuery) ([]models.InstallmentEntry, int64, error) {
	entries, err := r.FindEntriesByPlan(ctx, query.PlanID)
	return entries, int64(len(entries)), err
}

func (r *fakeLedgerRepo) Atomic(_ context.Context, fn func(repo repository.InstallmentRepository) error) error {
	return fn(r)
}

// fakeSaleRepo covers the slice of SaleRepository the ledger touches
type fakeSaleRepo struct {
	sales  map[uint]*models.Sale
	nextID uint
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uint]*models.Sale), nextID: 1}
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uint) (*models.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (r *fakeSaleRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSaleRepo) FindByCustomer(_ context.Context, _ uint) ([]models.Sale, error) {
	return nil, nil
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *models.Sale) error {
	if sale.ID == 0 {
		sale.ID = r.nextID
		r.nextID++
	}
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) Update(_ context.Context, sale *models.Sale) error {
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) List(_ context.Context, _ *repository.SaleQuery) ([]models.Sale, int64, error) {
	return nil, 0, nil
}

func (r *fakeSaleRepo) GetStats(_ context.Context) (*repository.SaleStats, error) {
	return &repository.SaleStats{}, nil
}

var testNow = time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)

func newLedgerFixture(t *testing.T, months int) (*InstallmentService, *fakeLedgerRepo, *fakeSaleRepo, *models.InstallmentPlan) {
	t.Helper()

	repo := newFakeLedgerRepo()
	saleRepo := newFakeSaleRepo()
	clock := FixedClock{Instant: testNow}
	schedule := NewInstallmentScheduleService(clock)
	svc := NewInstallmentService(repo, saleRepo, schedule, nil, nil, nil, nil, clock)

	saleRepo.sales[3] = &models.Sale{ID: 3, Status: models.SaleStatusActive}

	plan := &models.InstallmentPlan{
		SaleID:              3,
		CustomerID:          11,
		NumberOfMonths:      months,
		MonthlyInstallment:  1000,
		CollectionStartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreatePlan(context.Background(), plan))
	return svc, repo, saleRepo, plan
}

func TestCreateInitialEntry(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	entry, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, entry.AmountDue)
	assert.Equal(t, models.EntryStatusPending, entry.Status)
	assert.Equal(t, plan.CollectionStartDate, entry.DueDate)

	count, _ := repo.CountEntries(ctx, plan.ID)
	assert.Equal(t, int64(1), count)

	// A plan with entries refuses a second opening
	_, err = svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	assert.ErrorIs(t, err, ErrPlanHasEntries)
}

func TestCreateInitialEntryRejectsWrongCustomer(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	_, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID+1, 0, nil)
	assert.ErrorIs(t, err, ErrCustomerMismatch)

	count, _ := repo.CountEntries(ctx, plan.ID)
	assert.Equal(t, int64(0), count)
}

func TestCreateInitialEntryWithInlineCollection(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	entry, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusPaid, entry.Status)
	assert.Equal(t, 1000.0, entry.AmountPaid)
	require.NotNil(t, entry.PaymentDate)

	// Closing the first month in the same transaction materializes the second
	entries, _ := repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, models.EntryStatusPending, entries[1].Status)
	assert.Equal(t, 1000.0, entries[1].AmountDue)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), entries[1].DueDate)
}

func TestApplyPaymentFullCreatesSuccessor(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)

	collected, err := svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, models.EntryStatusPaid, collected.Status)
	assert.Equal(t, 1000.0, collected.AmountPaid)
	assert.Equal(t, 0.0, collected.CarryoverAmount)
	assert.Equal(t, 0.0, collected.OverdueAmount)
	require.NotNil(t, collected.PaymentDate)
	assert.Equal(t, testNow, *collected.PaymentDate)

	entries, _ := repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)
	successor := entries[1]
	assert.Equal(t, 1000.0, successor.AmountDue)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), successor.DueDate)
}

func TestApplyPaymentPartialCarriesShortfall(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)

	collected, err := svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: 600})
	require.NoError(t, err)

	assert.Equal(t, models.EntryStatusPartial, collected.Status)
	assert.Equal(t, 600.0, collected.AmountPaid)
	assert.Equal(t, 400.0, collected.CarryoverAmount)
	assert.Equal(t, 400.0, collected.OverdueAmount)

	// The shortfall lands on the successor's amount due
	entries, _ := repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, 1400.0, entries[1].AmountDue)
}

func TestRecollectPartialTailReplacesFigure(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)

	_, err = svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: 600})
	require.NoError(t, err)

	entries, _ := repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)
	successorID := entries[1].ID

	// Re-collection carries the full figure, not the delta
	collected, err := svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, models.EntryStatusPaid, collected.Status)
	assert.Equal(t, 1000.0, collected.AmountPaid)
	assert.Equal(t, 0.0, collected.CarryoverAmount)
	assert.Equal(t, 0.0, collected.OverdueAmount)

	// The successor is regenerated in place, never duplicated
	entries, _ = repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, successorID, entries[1].ID)
	assert.Equal(t, 1000.0, entries[1].AmountDue)
}

func TestApplyPaymentRejectsPaidEntry(t *testing.T) {
	svc, _, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 1000, nil)
	require.NoError(t, err)

	_, err = svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: 500})
	assert.ErrorIs(t, err, ErrEntryImmutable)
}

func TestApplyPaymentRejectsInvalidAmounts(t *testing.T) {
	svc, _, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)

	for _, amount := range []float64{0, -100, 1000.01} {
		_, err = svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: amount})
		assert.ErrorIs(t, err, ErrInvalidPaidAmount, "amount %.2f", amount)
	}
}

func TestApplyPaymentRejectsUnknownEntry(t *testing.T) {
	svc, _, _, _ := newLedgerFixture(t, 3)

	_, err := svc.ApplyPayment(context.Background(), CollectInput{EntryID: 999, Amount: 100})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartialBehindClosedHistoryIsLocked(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	partial := &models.InstallmentEntry{
		PlanID: plan.ID, CustomerID: plan.CustomerID,
		AmountDue: 1000, AmountPaid: 600, CarryoverAmount: 400,
		Status: models.EntryStatusPartial, DueDate: jan,
	}
	require.NoError(t, repo.CreateEntry(ctx, partial))
	closedLater := &models.InstallmentEntry{
		PlanID: plan.ID, CustomerID: plan.CustomerID,
		AmountDue: 1400, AmountPaid: 1400,
		Status: models.EntryStatusPaid, DueDate: jan.AddDate(0, 1, 0),
	}
	require.NoError(t, repo.CreateEntry(ctx, closedLater))

	// A closed entry with a later due date freezes the earlier partial
	_, err := svc.ApplyPayment(ctx, CollectInput{EntryID: partial.ID, Amount: 1000})
	assert.ErrorIs(t, err, ErrNotTailEntry)
}

func TestFinalMonthFullPaymentClosesSale(t *testing.T) {
	svc, repo, saleRepo, plan := newLedgerFixture(t, 2)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)
	_, err = svc.ApplyPayment(ctx, CollectInput{EntryID: first.ID, Amount: 1000})
	require.NoError(t, err)

	entries, _ := repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)

	_, err = svc.ApplyPayment(ctx, CollectInput{EntryID: entries[1].ID, Amount: 1000})
	require.NoError(t, err)

	// No successor after the last month
	entries, _ = repo.FindEntriesByPlan(ctx, plan.ID)
	assert.Len(t, entries, 2)

	sale, _ := saleRepo.FindByID(ctx, plan.SaleID)
	assert.Equal(t, models.SaleStatusClosed, sale.Status)
	require.NotNil(t, sale.ClosedAt)
}

func TestFinalMonthPartialLeavesCollectableTail(t *testing.T) {
	svc, repo, saleRepo, plan := newLedgerFixture(t, 2)
	ctx := context.Background()

	_, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 1000, nil)
	require.NoError(t, err)

	entries, _ := repo.FindEntriesByPlan(ctx, plan.ID)
	require.Len(t, entries, 2)

	last, err := svc.ApplyPayment(ctx, CollectInput{EntryID: entries[1].ID, Amount: 700})
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusPartial, last.Status)
	assert.Equal(t, 300.0, last.CarryoverAmount)

	// No successor beyond the plan's months, and the sale stays open
	entries, _ = repo.FindEntriesByPlan(ctx, plan.ID)
	assert.Len(t, entries, 2)
	sale, _ := saleRepo.FindByID(ctx, plan.SaleID)
	assert.Equal(t, models.SaleStatusActive, sale.Status)

	// The tail remains re-collectable until settled in full
	settled, err := svc.ApplyPayment(ctx, CollectInput{EntryID: last.ID, Amount: 1000})
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusPaid, settled.Status)

	sale, _ = saleRepo.FindByID(ctx, plan.SaleID)
	assert.Equal(t, models.SaleStatusClosed, sale.Status)
}

func TestDeleteEntryOnlyWhenUntouched(t *testing.T) {
	svc, repo, _, plan := newLedgerFixture(t, 3)
	ctx := context.Background()

	first, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 0, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, first.ID, 1, "", ""))
	count, _ := repo.CountEntries(ctx, plan.ID)
	assert.Equal(t, int64(0), count)

	collected, err := svc.CreateInitialEntry(ctx, plan.ID, plan.CustomerID, 600, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteEntry(ctx, collected.ID, 1, "", ""), ErrEntryImmutable)
}

func TestBuildPlanSummary(t *testing.T) {
	plan := &models.InstallmentPlan{
		ID: 7, SaleID: 3, CustomerID: 11,
		NumberOfMonths: 3, MonthlyInstallment: 1000,
		CollectionStartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	jan := plan.CollectionStartDate
	entries := []models.InstallmentEntry{
		{ID: 1, AmountDue: 1000, AmountPaid: 1000, Status: models.EntryStatusPaid, DueDate: jan},
		{ID: 2, AmountDue: 1000, AmountPaid: 600, CarryoverAmount: 400, Status: models.EntryStatusPartial, DueDate: jan.AddDate(0, 1, 0)},
		{ID: 3, AmountDue: 1400, Status: models.EntryStatusPending, DueDate: jan.AddDate(0, 2, 0)},
	}

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	summary := BuildPlanSummary(plan, entries, now)

	assert.Equal(t, 3000.0, summary.TotalScheduled)
	assert.Equal(t, 1600.0, summary.TotalCollected)
	assert.Equal(t, 1400.0, summary.Outstanding)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.PartialCount)
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 2, summary.RemainingMonths)
	assert.Equal(t, 53.33, summary.PercentagePaid)
	assert.False(t, summary.Completed)
	require.NotNil(t, summary.NextDueDate)
	assert.Equal(t, entries[2].DueDate, *summary.NextDueDate)

	// The live carryover is whatever the chronological tail left behind
	assert.Equal(t, 0.0, summary.CurrentCarryover)

	tailPartial := []models.InstallmentEntry{
		{ID: 1, AmountDue: 1000, AmountPaid: 1000, Status: models.EntryStatusPaid, DueDate: jan},
		{ID: 2, AmountDue: 1000, AmountPaid: 600, CarryoverAmount: 400, Status: models.EntryStatusPartial, DueDate: jan.AddDate(0, 1, 0)},
	}
	summary = BuildPlanSummary(plan, tailPartial, now)
	assert.Equal(t, 400.0, summary.CurrentCarryover)
	assert.False(t, summary.Completed)
}

func TestBuildPlanSummaryCompleted(t *testing.T) {
	plan := &models.InstallmentPlan{
		ID: 7, NumberOfMonths: 2, MonthlyInstallment: 1000,
		CollectionStartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	jan := plan.CollectionStartDate
	entries := []models.InstallmentEntry{
		{ID: 1, AmountDue: 1000, AmountPaid: 1000, Status: models.EntryStatusPaid, DueDate: jan},
		{ID: 2, AmountDue: 1000, AmountPaid: 1000, Status: models.EntryStatusPaid, DueDate: jan.AddDate(0, 1, 0)},
	}

	summary := BuildPlanSummary(plan, entries, jan.AddDate(0, 3, 0))
	assert.True(t, summary.Completed)
	assert.Equal(t, 0.0, summary.Outstanding)
	assert.Equal(t, 0, summary.RemainingMonths)
	assert.Equal(t, 100.0, summary.PercentagePaid)
	assert.Nil(t, summary.NextDueDate)
}

func TestBuildPlanSummaryEmptyPlan(t *testing.T) {
	plan := &models.InstallmentPlan{ID: 7, NumberOfMonths: 3, MonthlyInstallment: 1000}
	summary := BuildPlanSummary(plan, nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 3, summary.RemainingMonths)
	assert.Equal(t, 0.0, summary.PercentagePaid)

	// Degenerate plan: no scheduled total means no progress ratio
	empty := &models.InstallmentPlan{ID: 8, NumberOfMonths: 0, MonthlyInstallment: 0}
	summary = BuildPlanSummary(empty, nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0.0, summary.PercentagePaid)
	assert.Equal(t, 0, summary.RemainingMonths)
}
