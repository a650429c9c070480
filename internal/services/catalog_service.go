package services

import (
	"context"
	"errors"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"gorm.io/gorm"
)

// CatalogService manages the equipment, service and supplier catalogs
type CatalogService struct {
	equipmentRepo   repository.EquipmentRepository
	serviceItemRepo repository.ServiceItemRepository
	supplierRepo    repository.SupplierRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(equipmentRepo repository.EquipmentRepository, serviceItemRepo repository.ServiceItemRepository, supplierRepo repository.SupplierRepository) *CatalogService {
	return &CatalogService{
		equipmentRepo:   equipmentRepo,
		serviceItemRepo: serviceItemRepo,
		supplierRepo:    supplierRepo,
	}
}

// --- Equipment ---

func (s *CatalogService) FindEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	equipment, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return equipment, nil
}

func (s *CatalogService) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	if equipment.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *equipment.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	}
	return s.equipmentRepo.Create(ctx, equipment)
}

func (s *CatalogService) UpdateEquipment(ctx context.Context, id uint, mutate func(*models.Equipment)) (*models.Equipment, error) {
	equipment, err := s.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(equipment)
	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// RestockEquipment increments stock after a purchase from the supplier
func (s *CatalogService) RestockEquipment(ctx context.Context, id uint, quantity int) (*models.Equipment, error) {
	if quantity <= 0 {
		return nil, errors.New("la cantidad debe ser mayor que cero")
	}
	if _, err := s.FindEquipment(ctx, id); err != nil {
		return nil, err
	}
	if err := s.equipmentRepo.AdjustStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.FindEquipment(ctx, id)
}

func (s *CatalogService) ListEquipment(ctx context.Context, query *repository.ListQuery) ([]models.Equipment, int64, error) {
	return s.equipmentRepo.List(ctx, query)
}

// --- Service items ---

func (s *CatalogService) FindServiceItem(ctx context.Context, id uint) (*models.ServiceItem, error) {
	item, err := s.serviceItemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) CreateServiceItem(ctx context.Context, item *models.ServiceItem) error {
	return s.serviceItemRepo.Create(ctx, item)
}

func (s *CatalogService) UpdateServiceItem(ctx context.Context, id uint, mutate func(*models.ServiceItem)) (*models.ServiceItem, error) {
	item, err := s.FindServiceItem(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(item)
	if err := s.serviceItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) ListServiceItems(ctx context.Context, query *repository.ListQuery) ([]models.ServiceItem, int64, error) {
	return s.serviceItemRepo.List(ctx, query)
}

// --- Suppliers ---

func (s *CatalogService) FindSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, id uint, mutate func(*models.Supplier)) (*models.Supplier, error) {
	supplier, err := s.FindSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(supplier)
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) ListSuppliers(ctx context.Context, query *repository.ListQuery) ([]models.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, query)
}
