package repository

import (
	"context"
	"errors"

	"github.com/jmoncada/servitec-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstallmentRepository defines data access for installment plans and their
// entry sequences. Entries are always returned ordered by due date so callers
// can resolve the tail without trusting stored positions.
type InstallmentRepository interface {
	CreatePlan(ctx context.Context, plan *models.InstallmentPlan) error
	GetPlan(ctx context.Context, planID uint) (*models.InstallmentPlan, error)
	GetPlanBySale(ctx context.Context, saleID uint) (*models.InstallmentPlan, error)
	FindEntriesByPlan(ctx context.Context, planID uint) ([]models.InstallmentEntry, error)
	GetEntry(ctx context.Context, entryID uint) (*models.InstallmentEntry, error)
	GetEntryForUpdate(ctx context.Context, entryID uint) (*models.InstallmentEntry, error)
	CreateEntry(ctx context.Context, entry *models.InstallmentEntry) error
	UpdateEntry(ctx context.Context, entry *models.InstallmentEntry) error
	DeleteEntry(ctx context.Context, entryID uint) error
	CountEntries(ctx context.Context, planID uint) (int64, error)
	FindOverdueEntries(ctx context.Context) ([]models.InstallmentEntry, error)
	ListEntries(ctx context.Context, query *EntryQuery) ([]models.InstallmentEntry, int64, error)

	// Atomic runs fn against a transactional copy of the repository.
	// Everything written inside fn commits or rolls back as a unit.
	Atomic(ctx context.Context, fn func(repo InstallmentRepository) error) error
}

// EntryQuery extends ListQuery with entry-specific filters
type EntryQuery struct {
	*ListQuery
	CustomerID uint
	PlanID     uint
	Status     string
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreatePlan(ctx context.Context, plan *models.InstallmentPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *installmentRepository) GetPlan(ctx context.Context, planID uint) (*models.InstallmentPlan, error) {
	var plan models.InstallmentPlan
	err := r.db.WithContext(ctx).
		Preload("Sale").
		Preload("Customer").
		First(&plan, planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *installmentRepository) GetPlanBySale(ctx context.Context, saleID uint) (*models.InstallmentPlan, error) {
	var plan models.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *installmentRepository) FindEntriesByPlan(ctx context.Context, planID uint) ([]models.InstallmentEntry, error) {
	var entries []models.InstallmentEntry
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("due_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *installmentRepository) GetEntry(ctx context.Context, entryID uint) (*models.InstallmentEntry, error) {
	var entry models.InstallmentEntry
	err := r.db.WithContext(ctx).First(&entry, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntryForUpdate loads an entry under a row-level lock. Two concurrent
// collections against the same entry serialize here; the tail check and the
// no-duplicate-successor guarantee depend on it.
func (r *installmentRepository) GetEntryForUpdate(ctx context.Context, entryID uint) (*models.InstallmentEntry, error) {
	var entry models.InstallmentEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&entry, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *installmentRepository) CreateEntry(ctx context.Context, entry *models.InstallmentEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *installmentRepository) UpdateEntry(ctx context.Context, entry *models.InstallmentEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *installmentRepository) DeleteEntry(ctx context.Context, entryID uint) error {
	return r.db.WithContext(ctx).Delete(&models.InstallmentEntry{}, entryID).Error
}

func (r *installmentRepository) CountEntries(ctx context.Context, planID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InstallmentEntry{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	return count, err
}

// FindOverdueEntries returns pending entries past their due date, with plan and
// customer preloaded for notification/reporting purposes.
func (r *installmentRepository) FindOverdueEntries(ctx context.Context) ([]models.InstallmentEntry, error) {
	var entries []models.InstallmentEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < NOW()", models.EntryStatusPending).
		Preload("Plan").
		Preload("Customer").
		Order("due_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *installmentRepository) ListEntries(ctx context.Context, query *EntryQuery) ([]models.InstallmentEntry, int64, error) {
	var entries []models.InstallmentEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.InstallmentEntry{})

	if query.PlanID > 0 {
		db = db.Where("plan_id = ?", query.PlanID)
	}
	if query.CustomerID > 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Preload("Customer").
		Order("due_date ASC").
		Scopes(Paginate(query.ListQuery)).
		Find(&entries).Error
	return entries, total, err
}

func (r *installmentRepository) Atomic(ctx context.Context, fn func(repo InstallmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&installmentRepository{db: tx})
	})
}
