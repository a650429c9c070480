package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary List Customers
// @Description Get a paginated list of customers
// @Tags Customers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by name, identity or phone"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["active"] = c.Query("active")

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, cust := range customers {
		responses = append(responses, cust.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  responses,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Customer
// @Description Get a customer with their sales and subscriptions
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} services.CustomerProfile
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	profile, err := h.customerService.GetProfile(c.Request.Context(), pathID(c, "customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type CreateCustomerRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Identity string  `json:"identity" binding:"required"`
	RTN      string  `json:"rtn"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Address  *string `json:"address"`
	Note     *string `json:"note"`
}

// @Summary Create Customer
// @Description Register a new customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body CreateCustomerRequest true "Customer"
// @Success 201 {object} models.CustomerResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil || req.FullName == "" || req.Identity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre e identidad son requeridos"})
		return
	}

	customer := &models.Customer{
		FullName: req.FullName,
		Identity: req.Identity,
		RTN:      req.RTN,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Note:     req.Note,
		Active:   true,
	}
	if err := h.customerService.Create(c.Request.Context(), customer); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer.ToResponse(), "message": "Cliente registrado"})
}

type UpdateCustomerRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Active   *bool   `json:"active"`
}

// @Summary Update Customer
// @Description Update a customer's profile. The identity document is immutable.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Param request body UpdateCustomerRequest true "Changes"
// @Success 200 {object} models.CustomerResponse
// @Security BearerAuth
// @Router /customers/{customer_id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), pathID(c, "customer_id"), services.UpdateCustomerInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Active:   req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse(), "message": "Cliente actualizado"})
}

// @Summary Delete Customer
// @Description Soft-delete a customer (Admin)
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customerService.SoftDelete(c.Request.Context(), pathID(c, "customer_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}
