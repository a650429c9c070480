package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
	"github.com/jmoncada/servitec-api/internal/storage"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
	storage            *storage.LocalStorage
}

func NewMaintenanceHandler(maintenanceService *services.MaintenanceService, store *storage.LocalStorage) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService, storage: store}
}

// @Summary List Maintenance Orders
// @Description Get a paginated list of maintenance orders
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param technician_id query int false "Filter by technician"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /maintenance [get]
func (h *MaintenanceHandler) Index(c *gin.Context) {
	query := &repository.MaintenanceQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	query.CustomerID = uint(customerID)
	technicianID, _ := strconv.ParseUint(c.Query("technician_id"), 10, 32)
	query.TechnicianID = uint(technicianID)

	orders, total, err := h.maintenanceService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, o := range orders {
		responses = append(responses, o.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"maintenance_orders": responses,
		"pagination":         paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Maintenance Order
// @Description Get a maintenance order by ID
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} models.MaintenanceOrderResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance/{order_id} [get]
func (h *MaintenanceHandler) Show(c *gin.Context) {
	order, err := h.maintenanceService.FindByID(c.Request.Context(), pathID(c, "order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_order": order.ToResponse()})
}

type ScheduleMaintenanceRequest struct {
	CustomerID    uint   `json:"customer_id" binding:"required"`
	ServiceItemID uint   `json:"service_item_id" binding:"required"`
	TechnicianID  *uint  `json:"technician_id"`
	ScheduledFor  string `json:"scheduled_for" binding:"required"`
}

// @Summary Schedule Maintenance
// @Description Create a maintenance order for a customer
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body ScheduleMaintenanceRequest true "Order"
// @Success 201 {object} models.MaintenanceOrderResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance [post]
func (h *MaintenanceHandler) Schedule(c *gin.Context) {
	var req ScheduleMaintenanceRequest
	if err := BindNestedOrFlat(c, "maintenance_order", &req); err != nil || req.CustomerID == 0 || req.ServiceItemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cliente, servicio y fecha son requeridos"})
		return
	}

	scheduledFor, err := parseDate(req.ScheduledFor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha programada inválida"})
		return
	}

	order, err := h.maintenanceService.Schedule(c.Request.Context(), services.ScheduleInput{
		CustomerID:    req.CustomerID,
		ServiceItemID: req.ServiceItemID,
		TechnicianID:  req.TechnicianID,
		ScheduledFor:  scheduledFor,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"maintenance_order": order.ToResponse(), "message": "Mantenimiento programado"})
}

type AssignTechnicianRequest struct {
	TechnicianID uint `json:"technician_id" binding:"required"`
}

// @Summary Assign Technician
// @Description Assign a technician to a maintenance order
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param request body AssignTechnicianRequest true "Technician"
// @Success 200 {object} models.MaintenanceOrderResponse
// @Security BearerAuth
// @Router /maintenance/{order_id}/assign [post]
func (h *MaintenanceHandler) Assign(c *gin.Context) {
	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El técnico es requerido"})
		return
	}

	order, err := h.maintenanceService.AssignTechnician(c.Request.Context(), pathID(c, "order_id"), req.TechnicianID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_order": order.ToResponse(), "message": "Técnico asignado"})
}

// @Summary Mark In Route
// @Description Mark a maintenance order as in route
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} models.MaintenanceOrderResponse
// @Security BearerAuth
// @Router /maintenance/{order_id}/in_route [post]
func (h *MaintenanceHandler) InRoute(c *gin.Context) {
	order, err := h.maintenanceService.MarkInRoute(c.Request.Context(), pathID(c, "order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_order": order.ToResponse(), "message": "Orden en ruta"})
}

type CompleteMaintenanceRequest struct {
	Diagnosis string `json:"diagnosis"`
}

// @Summary Complete Maintenance
// @Description Complete a maintenance order with the technician's diagnosis
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param request body CompleteMaintenanceRequest false "Diagnosis"
// @Success 200 {object} models.MaintenanceOrderResponse
// @Security BearerAuth
// @Router /maintenance/{order_id}/complete [post]
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	var req CompleteMaintenanceRequest
	c.ShouldBindJSON(&req)

	order, err := h.maintenanceService.Complete(c.Request.Context(), pathID(c, "order_id"), req.Diagnosis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_order": order.ToResponse(), "message": "Mantenimiento completado"})
}

// @Summary Cancel Maintenance
// @Description Cancel a maintenance order
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} models.MaintenanceOrderResponse
// @Security BearerAuth
// @Router /maintenance/{order_id}/cancel [post]
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	order, err := h.maintenanceService.Cancel(c.Request.Context(), pathID(c, "order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_order": order.ToResponse(), "message": "Mantenimiento cancelado"})
}

// @Summary Upload Evidence
// @Description Upload a photo or document as evidence of the visit
// @Tags Maintenance
// @Accept multipart/form-data
// @Produce json
// @Param order_id path int true "Order ID"
// @Param evidence formData file true "Evidence File"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance/{order_id}/evidence [post]
func (h *MaintenanceHandler) UploadEvidence(c *gin.Context) {
	file, header, err := c.Request.FormFile("evidence")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo requerido"})
		return
	}
	defer file.Close()

	if c.Request.ContentLength > storage.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo demasiado grande"})
		return
	}
	if !storage.ValidContentTypes()[header.Header.Get("Content-Type")] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de archivo inválido"})
		return
	}

	order, err := h.maintenanceService.AddEvidence(c.Request.Context(), pathID(c, "order_id"), file, header)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_order": order.ToResponse(), "message": "Evidencia subida exitosamente"})
}

// @Summary Technician Agenda
// @Description Get the maintenance orders assigned to a technician for a day
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param technician_id query int true "Technician ID"
// @Param date query string false "Day (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /maintenance/agenda [get]
func (h *MaintenanceHandler) Agenda(c *gin.Context) {
	technicianID, _ := strconv.ParseUint(c.Query("technician_id"), 10, 32)
	if technicianID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El técnico es requerido"})
		return
	}

	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := parseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida"})
			return
		}
		day = parsed
	}

	orders, err := h.maintenanceService.TechnicianAgenda(c.Request.Context(), uint(technicianID), day)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, o := range orders {
		responses = append(responses, o.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"agenda": responses})
}
