package repository

import (
	"context"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Sale, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Sale, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	Update(ctx context.Context, sale *models.Sale) error
	List(ctx context.Context, query *SaleQuery) ([]models.Sale, int64, error)
	GetStats(ctx context.Context) (*SaleStats, error)
}

// SaleQuery extends ListQuery with sale-specific filters
type SaleQuery struct {
	*ListQuery
	CustomerID uint
	Status     string
	SaleType   string
}

// SaleStats summarizes sales for the dashboard
type SaleStats struct {
	TotalSales      int64   `json:"total_sales"`
	ActiveCredit    int64   `json:"active_credit"`
	RevenueThisMonth float64 `json:"revenue_this_month"`
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Joins("Customer").
		Joins("Equipment").
		Preload("Employee").
		Preload("Plan").
		Preload("Plan.Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Preload("Equipment").
		Preload("Plan").
		Order("sold_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) Update(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) List(ctx context.Context, query *SaleQuery) ([]models.Sale, int64, error) {
	var sales []models.Sale
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Sale{})

	if query.CustomerID > 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.Status != "" {
		db = db.Where("sales.status = ?", query.Status)
	}
	if query.SaleType != "" {
		db = db.Where("sale_type = ?", query.SaleType)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Joins("Customer").
			Where("\"Customer\".full_name ILIKE ? OR \"Customer\".identity ILIKE ?", term, term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query.ListQuery, map[string]string{
		"sold_at":      "sold_at",
		"total_amount": "total_amount",
	}, "sold_at DESC")

	err := db.
		Preload("Customer").
		Preload("Equipment").
		Preload("Plan").
		Order(order).
		Scopes(Paginate(query.ListQuery)).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepository) GetStats(ctx context.Context) (*SaleStats, error) {
	stats := &SaleStats{}

	if err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Count(&stats.TotalSales).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("sale_type = ? AND status = ?", models.SaleTypeInstallment, models.SaleStatusActive).
		Count(&stats.ActiveCredit).Error; err != nil {
		return nil, err
	}

	var result struct {
		Revenue float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) as revenue").
		Where("DATE_TRUNC('month', sold_at) = DATE_TRUNC('month', NOW())").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	stats.RevenueThisMonth = result.Revenue

	return stats, nil
}
