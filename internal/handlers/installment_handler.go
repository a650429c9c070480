package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
)

type InstallmentHandler struct {
	installmentService *services.InstallmentService
}

func NewInstallmentHandler(installmentService *services.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

// @Summary List Installment Entries
// @Description Get a paginated list of installment entries
// @Tags Installments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param plan_id query int false "Filter by plan"
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /installments [get]
func (h *InstallmentHandler) Index(c *gin.Context) {
	query := &repository.EntryQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	planID, _ := strconv.ParseUint(c.Query("plan_id"), 10, 32)
	query.PlanID = uint(planID)
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	query.CustomerID = uint(customerID)
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	entries, total, err := h.installmentService.ListEntries(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"installments": responses,
		"pagination":   paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Installment Entry
// @Description Get an installment entry by ID
// @Tags Installments
// @Accept json
// @Produce json
// @Param entry_id path int true "Entry ID"
// @Success 200 {object} models.InstallmentEntryResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{entry_id} [get]
func (h *InstallmentHandler) Show(c *gin.Context) {
	entry, err := h.installmentService.GetEntry(c.Request.Context(), pathID(c, "entry_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installment": entry.ToResponse()})
}

type CollectRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Note   *string `json:"note"`
}

// @Summary Collect Installment
// @Description Record a collection against an installment entry. The amount
// is the total collected for the entry; re-collecting a partial entry
// replaces the earlier figure.
// @Tags Installments
// @Accept json
// @Produce json
// @Param entry_id path int true "Entry ID"
// @Param request body CollectRequest true "Collection"
// @Success 200 {object} models.InstallmentEntryResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{entry_id}/collect [post]
func (h *InstallmentHandler) Collect(c *gin.Context) {
	var req CollectRequest
	if err := BindNestedOrFlat(c, "collection", &req); err != nil || req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto es requerido"})
		return
	}

	entry, err := h.installmentService.ApplyPayment(c.Request.Context(), services.CollectInput{
		EntryID:   pathID(c, "entry_id"),
		Amount:    req.Amount,
		Note:      req.Note,
		ActorID:   currentUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"installment": entry.ToResponse(), "message": "Cobro registrado"})
}

// @Summary Delete Installment Entry
// @Description Delete an untouched installment entry (Admin)
// @Tags Installments
// @Accept json
// @Produce json
// @Param entry_id path int true "Entry ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{entry_id} [delete]
func (h *InstallmentHandler) Delete(c *gin.Context) {
	err := h.installmentService.DeleteEntry(c.Request.Context(), pathID(c, "entry_id"),
		currentUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cuota eliminada"})
}

// @Summary Get Installment Plan
// @Description Get an installment plan by ID
// @Tags Installments
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} models.InstallmentPlanResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id} [get]
func (h *InstallmentHandler) ShowPlan(c *gin.Context) {
	plan, err := h.installmentService.GetPlan(c.Request.Context(), pathID(c, "plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan.ToResponse()})
}

// @Summary Plan Summary
// @Description Get the collection summary for an installment plan
// @Tags Installments
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} services.PlanSummary
// @Security BearerAuth
// @Router /plans/{plan_id}/summary [get]
func (h *InstallmentHandler) Summary(c *gin.Context) {
	summary, err := h.installmentService.GetPlanSummary(c.Request.Context(), pathID(c, "plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Projected Schedule
// @Description Get the projected monthly schedule for a plan, assuming
// every future installment is paid in full
// @Tags Installments
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /plans/{plan_id}/schedule [get]
func (h *InstallmentHandler) Schedule(c *gin.Context) {
	entries, err := h.installmentService.ProjectedSchedule(c.Request.Context(), pathID(c, "plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"schedule": responses})
}

type OpenLedgerRequest struct {
	CustomerID uint    `json:"customer_id" binding:"required"`
	AmountPaid float64 `json:"amount_paid"`
	Note       *string `json:"note"`
}

// @Summary Open Plan Ledger
// @Description Create the first installment entry for a plan, optionally
// collecting an initial amount in the same operation. The customer must
// match the plan's customer.
// @Tags Installments
// @Accept json
// @Produce json
// @Param plan_id path int true "Plan ID"
// @Param request body OpenLedgerRequest true "Initial collection"
// @Success 201 {object} models.InstallmentEntryResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/entries [post]
func (h *InstallmentHandler) OpenLedger(c *gin.Context) {
	var req OpenLedgerRequest
	if err := BindNestedOrFlat(c, "entry", &req); err != nil || req.CustomerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El cliente es requerido"})
		return
	}

	entry, err := h.installmentService.CreateInitialEntry(c.Request.Context(), pathID(c, "plan_id"), req.CustomerID, req.AmountPaid, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"installment": entry.ToResponse()})
}
