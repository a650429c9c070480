package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
	"github.com/jmoncada/servitec-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Customer     *CustomerHandler
	Sale         *SaleHandler
	Installment  *InstallmentHandler
	Invoice      *InvoiceHandler
	Maintenance  *MaintenanceHandler
	Subscription *SubscriptionHandler
	Equipment    *EquipmentHandler
	ServiceItem  *ServiceItemHandler
	Supplier     *SupplierHandler
	Employee     *EmployeeHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Customer:     NewCustomerHandler(svcs.Customer),
		Sale:         NewSaleHandler(svcs.Sale, svcs.Invoice),
		Installment:  NewInstallmentHandler(svcs.Installment),
		Invoice:      NewInvoiceHandler(svcs.Invoice),
		Maintenance:  NewMaintenanceHandler(svcs.Maintenance, store),
		Subscription: NewSubscriptionHandler(svcs.Subscription),
		Equipment:    NewEquipmentHandler(svcs.Catalog),
		ServiceItem:  NewServiceItemHandler(svcs.Catalog),
		Supplier:     NewSupplierHandler(svcs.Catalog),
		Employee:     NewEmployeeHandler(svcs.Employee),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(worker, svcs.Installment, svcs.Maintenance, svcs.Subscription),
	}
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidPaidAmount),
		errors.Is(err, services.ErrEntryImmutable),
		errors.Is(err, services.ErrNotTailEntry),
		errors.Is(err, services.ErrPlanHasEntries),
		errors.Is(err, services.ErrCustomerMismatch),
		errors.Is(err, services.ErrOutOfStock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseListQuery builds a ListQuery from common pagination params
func parseListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}
	return query
}

// paginationResponse is the standard pagination envelope
func paginationResponse(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}

// pathID parses a uint path parameter
func pathID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id)
}

// queryID parses a uint query parameter
func queryID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Query(name), 10, 32)
	return uint(id)
}

// currentUserID extracts the authenticated user ID from the context
func currentUserID(c *gin.Context) uint {
	id, exists := c.Get("userID")
	if !exists {
		return 0
	}
	switch v := id.(type) {
	case uint:
		return v
	case float64:
		return uint(v)
	default:
		return 0
	}
}
