package services

import (
	"github.com/jmoncada/servitec-api/internal/config"
	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Customer     *CustomerService
	Sale         *SaleService
	Installment  *InstallmentService
	Schedule     *InstallmentScheduleService
	Invoice      *InvoiceService
	Maintenance  *MaintenanceService
	Subscription *SubscriptionService
	Catalog      *CatalogService
	Employee     *EmployeeService
	Notification *NotificationService
	Report       *ReportService
	Export       *ExportService
	Audit        *AuditService
	Email        *EmailService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config, clock Clock) *Services {
	if clock == nil {
		clock = SystemClock
	}

	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(repos.Audit)
	scheduleSvc := NewInstallmentScheduleService(clock)

	installmentSvc := NewInstallmentService(repos.Installment, repos.Sale, scheduleSvc, notificationSvc, emailSvc, auditSvc, worker, clock)
	invoiceSvc := NewInvoiceService(repos.Invoice, repos.Customer, storage, cfg, clock)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg),
		User:         NewUserService(repos.User, emailSvc, auditSvc, worker),
		Customer:     NewCustomerService(repos.Customer, repos.Sale, repos.Subscription),
		Sale:         NewSaleService(repos.Sale, repos.Customer, repos.Equipment, repos.Installment, installmentSvc, scheduleSvc, notificationSvc, auditSvc, worker, clock),
		Installment:  installmentSvc,
		Schedule:     scheduleSvc,
		Invoice:      invoiceSvc,
		Maintenance:  NewMaintenanceService(repos.Maintenance, repos.Customer, repos.ServiceItem, repos.Employee, notificationSvc, emailSvc, storage, worker, clock),
		Subscription: NewSubscriptionService(repos.Subscription, repos.Customer, repos.ServiceItem, invoiceSvc, clock),
		Catalog:      NewCatalogService(repos.Equipment, repos.ServiceItem, repos.Supplier),
		Employee:     NewEmployeeService(repos.Employee),
		Notification: notificationSvc,
		Report:       NewReportService(repos.Installment, repos.Customer, repos.Sale, cfg, clock),
		Export:       NewExportService(repos.Sale, repos.Installment, clock),
		Audit:        auditSvc,
		Email:        emailSvc,
	}
}
