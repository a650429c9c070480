package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices
// @Tags Invoices
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (issued/voided)"
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := &repository.InvoiceQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	query.CustomerID = uint(customerID)
	if from := c.Query("start_date"); from != "" {
		if t, err := parseDate(from); err == nil {
			query.From = &t
		}
	}
	if to := c.Query("end_date"); to != "" {
		if t, err := parseDate(to); err == nil {
			query.To = &t
		}
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":   responses,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Invoice
// @Description Get an invoice by ID
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	invoice, err := h.invoiceService.FindByID(c.Request.Context(), pathID(c, "invoice_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type VoidInvoiceRequest struct {
	Reason string `json:"reason"`
}

// @Summary Void Invoice
// @Description Void an issued invoice (Admin). Voided invoices keep their
// fiscal number; it is never reused.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Param request body VoidInvoiceRequest false "Void reason"
// @Success 200 {object} models.InvoiceResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	var req VoidInvoiceRequest
	c.ShouldBindJSON(&req)

	invoice, err := h.invoiceService.Void(c.Request.Context(), pathID(c, "invoice_id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse(), "message": "Factura anulada"})
}

// @Summary Download Invoice PDF
// @Description Download the rendered invoice document
// @Tags Invoices
// @Produce application/pdf
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {file} file "invoice"
// @Security BearerAuth
// @Router /invoices/{invoice_id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	data, filename, err := h.invoiceService.GetPDF(c.Request.Context(), pathID(c, "invoice_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
