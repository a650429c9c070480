package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
)

type SaleHandler struct {
	saleService    *services.SaleService
	invoiceService *services.InvoiceService
}

func NewSaleHandler(saleService *services.SaleService, invoiceService *services.InvoiceService) *SaleHandler {
	return &SaleHandler{saleService: saleService, invoiceService: invoiceService}
}

// @Summary List Sales
// @Description Get a paginated list of sales
// @Tags Sales
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param sale_type query string false "Filter by type (cash/installments)"
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandler) Index(c *gin.Context) {
	query := &repository.SaleQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	query.SaleType = c.Query("sale_type")
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	query.CustomerID = uint(customerID)

	sales, total, err := h.saleService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, s := range sales {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":      responses,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Sale
// @Description Get a sale by ID with its plan and customer
// @Tags Sales
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Success 200 {object} models.SaleResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id} [get]
func (h *SaleHandler) Show(c *gin.Context) {
	sale, err := h.saleService.FindByID(c.Request.Context(), pathID(c, "sale_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse()})
}

type CreateSaleRequest struct {
	CustomerID  uint    `json:"customer_id" binding:"required"`
	EquipmentID uint    `json:"equipment_id" binding:"required"`
	EmployeeID  *uint   `json:"employee_id"`
	Quantity    int     `json:"quantity"`
	SaleType    string  `json:"sale_type" binding:"required"`
	TotalAmount float64 `json:"total_amount"`
	DownPayment float64 `json:"down_payment"`
	Note        *string `json:"note"`

	NumberOfMonths      int     `json:"number_of_months"`
	MonthlyInstallment  float64 `json:"monthly_installment"`
	CollectionStartDate string  `json:"collection_start_date"`
}

// @Summary Create Sale
// @Description Register a sale. Cash sales close immediately; installment
// sales open a financing plan with its first scheduled entry.
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body CreateSaleRequest true "Sale"
// @Success 201 {object} models.SaleResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req CreateSaleRequest
	if err := BindNestedOrFlat(c, "sale", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de venta inválidos"})
		return
	}
	if req.CustomerID == 0 || req.EquipmentID == 0 || req.SaleType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cliente, equipo y tipo de venta son requeridos"})
		return
	}

	input := services.CreateSaleInput{
		CustomerID:         req.CustomerID,
		EquipmentID:        req.EquipmentID,
		EmployeeID:         req.EmployeeID,
		Quantity:           req.Quantity,
		SaleType:           req.SaleType,
		TotalAmount:        req.TotalAmount,
		DownPayment:        req.DownPayment,
		Note:               req.Note,
		NumberOfMonths:     req.NumberOfMonths,
		MonthlyInstallment: req.MonthlyInstallment,
		ActorID:            currentUserID(c),
		IP:                 c.ClientIP(),
		UserAgent:          c.Request.UserAgent(),
	}
	if req.CollectionStartDate != "" {
		startDate, err := parseDate(req.CollectionStartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de inicio de cobro inválida"})
			return
		}
		input.CollectionStartDate = startDate
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale": sale.ToResponse(), "message": "Venta registrada"})
}

// @Summary Cancel Sale
// @Description Cancel a sale and restock the equipment (Admin)
// @Tags Sales
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Success 200 {object} models.SaleResponse
// @Security BearerAuth
// @Router /sales/{sale_id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	sale, err := h.saleService.Cancel(c.Request.Context(), pathID(c, "sale_id"),
		currentUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse(), "message": "Venta cancelada"})
}

// @Summary Sale Stats
// @Description Get sales statistics for the dashboard
// @Tags Sales
// @Accept json
// @Produce json
// @Success 200 {object} repository.SaleStats
// @Security BearerAuth
// @Router /sales/stats [get]
func (h *SaleHandler) Stats(c *gin.Context) {
	stats, err := h.saleService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type IssueInvoiceRequest struct {
	Description string `json:"description"`
}

// @Summary Issue Sale Invoice
// @Description Issue a fiscal invoice for a sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Param request body IssueInvoiceRequest false "Invoice line description"
// @Success 201 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /sales/{sale_id}/invoice [post]
func (h *SaleHandler) Invoice(c *gin.Context) {
	var req IssueInvoiceRequest
	c.ShouldBindJSON(&req)

	sale, err := h.saleService.FindByID(c.Request.Context(), pathID(c, "sale_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	invoice, err := h.invoiceService.IssueForSale(c.Request.Context(), sale, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice.ToResponse(), "message": "Factura emitida"})
}

// parseDate accepts ISO dates with or without a time component
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
