package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCustomerRepo struct {
	customers map[uint]*models.Customer
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uint) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) FindByIdentity(_ context.Context, _ string) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) Create(_ context.Context, _ *models.Customer) error { return nil }
func (r *fakeCustomerRepo) Update(_ context.Context, _ *models.Customer) error { return nil }
func (r *fakeCustomerRepo) SoftDelete(_ context.Context, _ uint) error { return nil }
func (r *fakeCustomerRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Customer, int64, error) {
	return nil, 0, nil
}

type fakeEquipmentRepo struct {
	items map[uint]*models.Equipment
}

func (r *fakeEquipmentRepo) FindByID(_ context.Context, id uint) (*models.Equipment, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeEquipmentRepo) Create(_ context.Context, _ *models.Equipment) error { return nil }
func (r *fakeEquipmentRepo) Update(_ context.Context, _ *models.Equipment) error { return nil }

func (r *fakeEquipmentRepo) AdjustStock(_ context.Context, id uint, delta int) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Stock += delta
	return nil
}

func (r *fakeEquipmentRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Equipment, int64, error) {
	return nil, 0, nil
}

// failingPlanRepo injects a plan-creation failure into the ledger repo
type failingPlanRepo struct {
	*fakeLedgerRepo
	failCreatePlan bool
}

func (r *failingPlanRepo) CreatePlan(ctx context.Context, plan *models.InstallmentPlan) error {
	if r.failCreatePlan {
		return errors.New("plan write refused")
	}
	return r.fakeLedgerRepo.CreatePlan(ctx, plan)
}

func newSaleFixture(t *testing.T) (*SaleService, *fakeSaleRepo, *fakeEquipmentRepo, *failingPlanRepo) {
	t.Helper()

	saleRepo := newFakeSaleRepo()
	customerRepo := &fakeCustomerRepo{customers: map[uint]*models.Customer{
		11: {ID: 11, FullName: "Juan Martínez", Identity: "0801-1985-01234"},
	}}
	equipmentRepo := &fakeEquipmentRepo{items: map[uint]*models.Equipment{
		5: {ID: 5, Name: "Compresor industrial", Price: 1000, Stock: 4, Active: true},
	}}
	ledger := &failingPlanRepo{fakeLedgerRepo: newFakeLedgerRepo()}

	clock := FixedClock{Instant: testNow}
	schedule := NewInstallmentScheduleService(clock)
	installmentSvc := NewInstallmentService(ledger, saleRepo, schedule, nil, nil, nil, nil, clock)
	svc := NewSaleService(saleRepo, customerRepo, equipmentRepo, ledger, installmentSvc, schedule, nil, nil, nil, clock)
	return svc, saleRepo, equipmentRepo, ledger
}

func TestCreateCashSale(t *testing.T) {
	svc, _, equipmentRepo, _ := newSaleFixture(t)
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, CreateSaleInput{
		CustomerID:  11,
		EquipmentID: 5,
		Quantity:    2,
		SaleType:    models.SaleTypeCash,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusClosed, sale.Status)
	require.NotNil(t, sale.ClosedAt)
	assert.Equal(t, 2000.0, sale.TotalAmount)
	assert.Equal(t, 2, equipmentRepo.items[5].Stock)
}

func TestCreateCreditSaleOpensPlan(t *testing.T) {
	svc, _, equipmentRepo, ledger := newSaleFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	sale, err := svc.CreateSale(ctx, CreateSaleInput{
		CustomerID:          11,
		EquipmentID:         5,
		Quantity:            1,
		SaleType:            models.SaleTypeInstallment,
		DownPayment:         400,
		NumberOfMonths:      3,
		CollectionStartDate: start,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusActive, sale.Status)
	assert.Equal(t, 3, equipmentRepo.items[5].Stock)

	plan, err := ledger.GetPlanBySale(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, uint(11), plan.CustomerID)
	// Monthly figure derived from the financed remainder: (1000−400)/3
	assert.Equal(t, 200.0, plan.MonthlyInstallment)
	assert.Equal(t, start, plan.CollectionStartDate)

	entries, err := ledger.FindEntriesByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryStatusPending, entries[0].Status)
	assert.Equal(t, 200.0, entries[0].AmountDue)
}

func TestCreateCreditSaleCompensatesOnPlanFailure(t *testing.T) {
	svc, saleRepo, equipmentRepo, ledger := newSaleFixture(t)
	ledger.failCreatePlan = true
	ctx := context.Background()

	_, err := svc.CreateSale(ctx, CreateSaleInput{
		CustomerID:     11,
		EquipmentID:    5,
		Quantity:       1,
		SaleType:       models.SaleTypeInstallment,
		DownPayment:    400,
		NumberOfMonths: 3,
	})
	require.Error(t, err)

	// The half-registered sale is backed out: units restocked, row cancelled
	assert.Equal(t, 4, equipmentRepo.items[5].Stock)
	require.Len(t, saleRepo.sales, 1)
	for _, sale := range saleRepo.sales {
		assert.Equal(t, models.SaleStatusCancelled, sale.Status)
	}
}

func TestCreateSaleOutOfStock(t *testing.T) {
	svc, _, _, _ := newSaleFixture(t)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		CustomerID:  11,
		EquipmentID: 5,
		Quantity:    10,
		SaleType:    models.SaleTypeCash,
	})
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestCreateSaleInvalidDownPayment(t *testing.T) {
	svc, _, _, _ := newSaleFixture(t)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		CustomerID:  11,
		EquipmentID: 5,
		SaleType:    models.SaleTypeInstallment,
		DownPayment: 5000,
	})
	assert.ErrorIs(t, err, ErrInvalidPaidAmount)
}
