package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// @Summary Plan Statement PDF
// @Description Generate the account statement for an installment plan
// @Tags Reports
// @Produce application/pdf
// @Param plan_id query int true "Plan ID"
// @Success 200 {file} file "statement"
// @Security BearerAuth
// @Router /reports/plan_statement_pdf [get]
func (h *ReportHandler) PlanStatementPDF(c *gin.Context) {
	planID := queryID(c, "plan_id")
	if planID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El plan es requerido"})
		return
	}

	buf, err := h.reportService.GeneratePlanStatementPDF(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=estado_cuenta_%d.pdf", planID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Collections CSV
// @Description Export the collections book for a date range
// @Tags Reports
// @Produce text/csv
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file "collections"
// @Security BearerAuth
// @Router /reports/collections_csv [get]
func (h *ReportHandler) CollectionsCSV(c *gin.Context) {
	buf, filename, err := h.reportService.GenerateCollectionsCSV(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Sales CSV
// @Description Export the sales book
// @Tags Reports
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Param sale_type query string false "Filter by type"
// @Success 200 {file} file "sales"
// @Security BearerAuth
// @Router /reports/sales_csv [get]
func (h *ReportHandler) SalesCSV(c *gin.Context) {
	query := &repository.SaleQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 100
	query.Status = c.Query("status")
	query.SaleType = c.Query("sale_type")

	data, filename, err := h.exportService.ExportSalesCSV(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Portfolio XLSX
// @Description Export the credit portfolio as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by entry status"
// @Success 200 {file} file "portfolio"
// @Security BearerAuth
// @Router /reports/portfolio_xlsx [get]
func (h *ReportHandler) PortfolioXLSX(c *gin.Context) {
	query := &repository.EntryQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 100
	query.Status = c.Query("status")
	query.CustomerID = queryID(c, "customer_id")

	data, filename, err := h.exportService.ExportPortfolioXLSX(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
