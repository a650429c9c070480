package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/services"
)

type JobHandler struct {
	worker              *jobs.Worker
	installmentService  *services.InstallmentService
	maintenanceService  *services.MaintenanceService
	subscriptionService *services.SubscriptionService
}

func NewJobHandler(worker *jobs.Worker, installmentService *services.InstallmentService, maintenanceService *services.MaintenanceService, subscriptionService *services.SubscriptionService) *JobHandler {
	return &JobHandler{
		worker:              worker,
		installmentService:  installmentService,
		maintenanceService:  maintenanceService,
		subscriptionService: subscriptionService,
	}
}

// @Summary Worker Stats
// @Description Get background worker statistics (Admin)
// @Tags Jobs
// @Produce json
// @Success 200 {object} jobs.WorkerStats
// @Security BearerAuth
// @Router /jobs/stats [get]
func (h *JobHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.GetStats())
}

// @Summary Run Overdue Check
// @Description Run the overdue installment check immediately (Admin)
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/check_overdue [post]
func (h *JobHandler) RunOverdueCheck(c *gin.Context) {
	count, err := h.installmentService.CheckOverdueEntries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Revisión de mora ejecutada", "overdue_count": count})
}

// @Summary Run Maintenance Reminders
// @Description Send maintenance reminders for the next 24 hours (Admin)
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/send_reminders [post]
func (h *JobHandler) RunMaintenanceReminders(c *gin.Context) {
	count, err := h.maintenanceService.SendReminders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recordatorios enviados", "sent_count": count})
}

// @Summary Run Subscription Charges
// @Description Issue monthly invoices for active subscriptions (Admin)
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/charge_subscriptions [post]
func (h *JobHandler) RunSubscriptionCharges(c *gin.Context) {
	count, err := h.subscriptionService.ChargeMonthly(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cargos mensuales generados", "invoiced_count": count})
}
