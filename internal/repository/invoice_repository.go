package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, int64, error)
	NextSequence(ctx context.Context, year int) (int64, error)
}

// InvoiceQuery extends ListQuery with invoice-specific filters
type InvoiceQuery struct {
	*ListQuery
	CustomerID uint
	Status     string
	From       *time.Time
	To         *time.Time
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Sale").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.CustomerID > 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.Status != "" {
		db = db.Where("invoices.status = ?", query.Status)
	}
	if query.From != nil {
		db = db.Where("issued_at >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("issued_at <= ?", *query.To)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Joins("Customer").
			Where("number ILIKE ? OR \"Customer\".full_name ILIKE ?", term, term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query.ListQuery, map[string]string{
		"issued_at": "issued_at",
		"total":     "total",
		"number":    "number",
	}, "issued_at DESC")

	err := db.
		Preload("Customer").
		Order(order).
		Scopes(Paginate(query.ListQuery)).
		Find(&invoices).Error
	return invoices, total, err
}

// NextSequence returns the next correlative number within a fiscal year.
// Counting issued invoices is enough here because numbers embed the year
// and invoices are never hard-deleted, only voided.
func (r *invoiceRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	var count int64
	prefix := fmt.Sprintf("FAC-%d-%%", year)
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("number LIKE ?", prefix).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}
