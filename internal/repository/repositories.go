package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Customer     CustomerRepository
	Equipment    EquipmentRepository
	ServiceItem  ServiceItemRepository
	Supplier     SupplierRepository
	Employee     EmployeeRepository
	Sale         SaleRepository
	Installment  InstallmentRepository
	Invoice      InvoiceRepository
	Maintenance  MaintenanceRepository
	Subscription SubscriptionRepository
	Notification NotificationRepository
	Audit        AuditRepository
}

// NewRepositories creates all repositories with the given database connection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Equipment:    NewEquipmentRepository(db),
		ServiceItem:  NewServiceItemRepository(db),
		Supplier:     NewSupplierRepository(db),
		Employee:     NewEmployeeRepository(db),
		Sale:         NewSaleRepository(db),
		Installment:  NewInstallmentRepository(db),
		Invoice:      NewInvoiceRepository(db),
		Maintenance:  NewMaintenanceRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Notification: NewNotificationRepository(db),
		Audit:        NewAuditRepository(db),
	}
}
