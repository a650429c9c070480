package repository

import (
	"context"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// EquipmentRepository defines the interface for equipment catalog access
type EquipmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Equipment, error)
	Create(ctx context.Context, equipment *models.Equipment) error
	Update(ctx context.Context, equipment *models.Equipment) error
	AdjustStock(ctx context.Context, id uint, delta int) error
	List(ctx context.Context, query *ListQuery) ([]models.Equipment, int64, error)
}

type equipmentRepository struct {
	db *gorm.DB
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) FindByID(ctx context.Context, id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&equipment, id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Save(equipment).Error
}

// AdjustStock applies a stock delta atomically in SQL so two
// concurrent sales never read-modify-write the same count.
func (r *equipmentRepository) AdjustStock(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *equipmentRepository) List(ctx context.Context, query *ListQuery) ([]models.Equipment, int64, error) {
	var items []models.Equipment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Equipment{})

	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR serial_code ILIKE ?", term, term, term, term)
	}
	if active := query.Filters["active"]; active != "" {
		db = db.Where("active = ?", active == "true")
	}
	if inStock := query.Filters["in_stock"]; inStock == "true" {
		db = db.Where("stock > 0")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query, map[string]string{
		"name":  "name",
		"price": "price",
		"stock": "stock",
	}, "name ASC")

	err := db.Preload("Supplier").Order(order).Scopes(Paginate(query)).Find(&items).Error
	return items, total, err
}

// ServiceItemRepository defines the interface for the service catalog
type ServiceItemRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ServiceItem, error)
	Create(ctx context.Context, item *models.ServiceItem) error
	Update(ctx context.Context, item *models.ServiceItem) error
	List(ctx context.Context, query *ListQuery) ([]models.ServiceItem, int64, error)
}

type serviceItemRepository struct {
	db *gorm.DB
}

// NewServiceItemRepository creates a new service item repository
func NewServiceItemRepository(db *gorm.DB) ServiceItemRepository {
	return &serviceItemRepository{db: db}
}

func (r *serviceItemRepository) FindByID(ctx context.Context, id uint) (*models.ServiceItem, error) {
	var item models.ServiceItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *serviceItemRepository) Create(ctx context.Context, item *models.ServiceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *serviceItemRepository) Update(ctx context.Context, item *models.ServiceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *serviceItemRepository) List(ctx context.Context, query *ListQuery) ([]models.ServiceItem, int64, error) {
	var items []models.ServiceItem
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ServiceItem{})

	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+query.Search+"%")
	}
	if active := query.Filters["active"]; active != "" {
		db = db.Where("active = ?", active == "true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query, map[string]string{
		"name":  "name",
		"price": "price",
	}, "name ASC")

	err := db.Order(order).Scopes(Paginate(query)).Find(&items).Error
	return items, total, err
}

// SupplierRepository defines the interface for supplier data access
type SupplierRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	List(ctx context.Context, query *ListQuery) ([]models.Supplier, int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *supplierRepository) List(ctx context.Context, query *ListQuery) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Supplier{})

	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR rtn ILIKE ?", term, term)
	}
	if active := query.Filters["active"]; active != "" {
		db = db.Where("active = ?", active == "true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query, map[string]string{
		"name": "name",
	}, "name ASC")

	err := db.Order(order).Scopes(Paginate(query)).Find(&suppliers).Error
	return suppliers, total, err
}
