package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// @Summary List Subscriptions
// @Description Get a paginated list of recurring service subscriptions
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *SubscriptionHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["customer_id"] = c.Query("customer_id")

	subs, total, err := h.subscriptionService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, s := range subs {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": responses,
		"pagination":    paginationResponse(query, total),
	})
}

// @Summary Get Subscription
// @Description Get a subscription by ID
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription_id path int true "Subscription ID"
// @Success 200 {object} models.SubscriptionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /subscriptions/{subscription_id} [get]
func (h *SubscriptionHandler) Show(c *gin.Context) {
	sub, err := h.subscriptionService.FindByID(c.Request.Context(), pathID(c, "subscription_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub.ToResponse()})
}

type CreateSubscriptionRequest struct {
	CustomerID    uint    `json:"customer_id" binding:"required"`
	ServiceItemID uint    `json:"service_item_id" binding:"required"`
	MonthlyFee    float64 `json:"monthly_fee"`
	StartDate     string  `json:"start_date"`
	Note          *string `json:"note"`
}

// @Summary Create Subscription
// @Description Open a recurring service subscription. A zero monthly fee
// falls back to the service item's catalog price.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body CreateSubscriptionRequest true "Subscription"
// @Success 201 {object} models.SubscriptionResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := BindNestedOrFlat(c, "subscription", &req); err != nil || req.CustomerID == 0 || req.ServiceItemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cliente y servicio son requeridos"})
		return
	}

	input := services.CreateSubscriptionInput{
		CustomerID:    req.CustomerID,
		ServiceItemID: req.ServiceItemID,
		MonthlyFee:    req.MonthlyFee,
		Note:          req.Note,
	}
	if req.StartDate != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de inicio inválida"})
			return
		}
		input.StartDate = startDate
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub.ToResponse(), "message": "Suscripción creada"})
}

// @Summary Pause Subscription
// @Tags Subscriptions
// @Produce json
// @Param subscription_id path int true "Subscription ID"
// @Success 200 {object} models.SubscriptionResponse
// @Security BearerAuth
// @Router /subscriptions/{subscription_id}/pause [post]
func (h *SubscriptionHandler) Pause(c *gin.Context) {
	sub, err := h.subscriptionService.Pause(c.Request.Context(), pathID(c, "subscription_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub.ToResponse(), "message": "Suscripción pausada"})
}

// @Summary Resume Subscription
// @Tags Subscriptions
// @Produce json
// @Param subscription_id path int true "Subscription ID"
// @Success 200 {object} models.SubscriptionResponse
// @Security BearerAuth
// @Router /subscriptions/{subscription_id}/resume [post]
func (h *SubscriptionHandler) Resume(c *gin.Context) {
	sub, err := h.subscriptionService.Resume(c.Request.Context(), pathID(c, "subscription_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub.ToResponse(), "message": "Suscripción reanudada"})
}

// @Summary Cancel Subscription
// @Tags Subscriptions
// @Produce json
// @Param subscription_id path int true "Subscription ID"
// @Success 200 {object} models.SubscriptionResponse
// @Security BearerAuth
// @Router /subscriptions/{subscription_id}/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.subscriptionService.Cancel(c.Request.Context(), pathID(c, "subscription_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub.ToResponse(), "message": "Suscripción cancelada"})
}
