package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/services"
)

// Catalog and staff roster handlers. These are thin CRUD surfaces; the
// interesting behavior (stock adjustment on sale, technician validation)
// lives in the sale and maintenance services.

// --- Equipment ---

type EquipmentHandler struct {
	catalogService *services.CatalogService
}

func NewEquipmentHandler(catalogService *services.CatalogService) *EquipmentHandler {
	return &EquipmentHandler{catalogService: catalogService}
}

// @Summary List Equipment
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /equipment [get]
func (h *EquipmentHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["active"] = c.Query("active")
	query.Filters["in_stock"] = c.Query("in_stock")

	equipment, total, err := h.catalogService.ListEquipment(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range equipment {
		responses = append(responses, e.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"equipment": responses, "pagination": paginationResponse(query, total)})
}

// @Summary Get Equipment
// @Tags Catalog
// @Produce json
// @Param equipment_id path int true "Equipment ID"
// @Success 200 {object} models.EquipmentResponse
// @Security BearerAuth
// @Router /equipment/{equipment_id} [get]
func (h *EquipmentHandler) Show(c *gin.Context) {
	equipment, err := h.catalogService.FindEquipment(c.Request.Context(), pathID(c, "equipment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment.ToResponse()})
}

type EquipmentRequest struct {
	SupplierID  *uint    `json:"supplier_id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	SerialCode  string   `json:"serial_code"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
	Active      *bool    `json:"active"`
}

// @Summary Create Equipment
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body EquipmentRequest true "Equipment"
// @Success 201 {object} models.EquipmentResponse
// @Security BearerAuth
// @Router /equipment [post]
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req EquipmentRequest
	if err := BindNestedOrFlat(c, "equipment", &req); err != nil || req.Name == "" || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y precio son requeridos"})
		return
	}

	equipment := &models.Equipment{
		SupplierID:  req.SupplierID,
		Name:        req.Name,
		Brand:       req.Brand,
		Model:       req.Model,
		SerialCode:  req.SerialCode,
		Price:       *req.Price,
		Description: req.Description,
		Active:      true,
	}
	if req.Stock != nil {
		equipment.Stock = *req.Stock
	}
	if err := h.catalogService.CreateEquipment(c.Request.Context(), equipment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"equipment": equipment.ToResponse(), "message": "Equipo registrado"})
}

// @Summary Update Equipment
// @Tags Catalog
// @Accept json
// @Produce json
// @Param equipment_id path int true "Equipment ID"
// @Param request body EquipmentRequest true "Changes"
// @Success 200 {object} models.EquipmentResponse
// @Security BearerAuth
// @Router /equipment/{equipment_id} [put]
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req EquipmentRequest
	if err := BindNestedOrFlat(c, "equipment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	equipment, err := h.catalogService.UpdateEquipment(c.Request.Context(), pathID(c, "equipment_id"), func(e *models.Equipment) {
		if req.Name != "" {
			e.Name = req.Name
		}
		if req.Brand != "" {
			e.Brand = req.Brand
		}
		if req.Model != "" {
			e.Model = req.Model
		}
		if req.SerialCode != "" {
			e.SerialCode = req.SerialCode
		}
		if req.Price != nil {
			e.Price = *req.Price
		}
		if req.Description != nil {
			e.Description = req.Description
		}
		if req.SupplierID != nil {
			e.SupplierID = req.SupplierID
		}
		if req.Active != nil {
			e.Active = *req.Active
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment.ToResponse(), "message": "Equipo actualizado"})
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// @Summary Restock Equipment
// @Description Add purchased units to the equipment stock (Admin)
// @Tags Catalog
// @Accept json
// @Produce json
// @Param equipment_id path int true "Equipment ID"
// @Param request body RestockRequest true "Quantity"
// @Success 200 {object} models.EquipmentResponse
// @Security BearerAuth
// @Router /equipment/{equipment_id}/restock [post]
func (h *EquipmentHandler) Restock(c *gin.Context) {
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La cantidad es requerida"})
		return
	}

	equipment, err := h.catalogService.RestockEquipment(c.Request.Context(), pathID(c, "equipment_id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment.ToResponse(), "message": "Inventario actualizado"})
}

// --- Service items ---

type ServiceItemHandler struct {
	catalogService *services.CatalogService
}

func NewServiceItemHandler(catalogService *services.CatalogService) *ServiceItemHandler {
	return &ServiceItemHandler{catalogService: catalogService}
}

// @Summary List Service Items
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /service_items [get]
func (h *ServiceItemHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["active"] = c.Query("active")

	items, total, err := h.catalogService.ListServiceItems(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, item := range items {
		responses = append(responses, item.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"service_items": responses, "pagination": paginationResponse(query, total)})
}

// @Summary Get Service Item
// @Tags Catalog
// @Produce json
// @Param item_id path int true "Service Item ID"
// @Success 200 {object} models.ServiceItemResponse
// @Security BearerAuth
// @Router /service_items/{item_id} [get]
func (h *ServiceItemHandler) Show(c *gin.Context) {
	item, err := h.catalogService.FindServiceItem(c.Request.Context(), pathID(c, "item_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service_item": item.ToResponse()})
}

type ServiceItemRequest struct {
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes *int     `json:"duration_minutes"`
	Description     *string  `json:"description"`
	Active          *bool    `json:"active"`
}

// @Summary Create Service Item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body ServiceItemRequest true "Service Item"
// @Success 201 {object} models.ServiceItemResponse
// @Security BearerAuth
// @Router /service_items [post]
func (h *ServiceItemHandler) Create(c *gin.Context) {
	var req ServiceItemRequest
	if err := BindNestedOrFlat(c, "service_item", &req); err != nil || req.Name == "" || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y precio son requeridos"})
		return
	}

	item := &models.ServiceItem{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Active:      true,
	}
	if req.DurationMinutes != nil {
		item.DurationMinutes = *req.DurationMinutes
	}
	if err := h.catalogService.CreateServiceItem(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service_item": item.ToResponse(), "message": "Servicio registrado"})
}

// @Summary Update Service Item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param item_id path int true "Service Item ID"
// @Param request body ServiceItemRequest true "Changes"
// @Success 200 {object} models.ServiceItemResponse
// @Security BearerAuth
// @Router /service_items/{item_id} [put]
func (h *ServiceItemHandler) Update(c *gin.Context) {
	var req ServiceItemRequest
	if err := BindNestedOrFlat(c, "service_item", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	item, err := h.catalogService.UpdateServiceItem(c.Request.Context(), pathID(c, "item_id"), func(i *models.ServiceItem) {
		if req.Name != "" {
			i.Name = req.Name
		}
		if req.Price != nil {
			i.Price = *req.Price
		}
		if req.DurationMinutes != nil {
			i.DurationMinutes = *req.DurationMinutes
		}
		if req.Description != nil {
			i.Description = req.Description
		}
		if req.Active != nil {
			i.Active = *req.Active
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service_item": item.ToResponse(), "message": "Servicio actualizado"})
}

// --- Suppliers ---

type SupplierHandler struct {
	catalogService *services.CatalogService
}

func NewSupplierHandler(catalogService *services.CatalogService) *SupplierHandler {
	return &SupplierHandler{catalogService: catalogService}
}

// @Summary List Suppliers
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /suppliers [get]
func (h *SupplierHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	suppliers, total, err := h.catalogService.ListSuppliers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, s := range suppliers {
		responses = append(responses, s.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": responses, "pagination": paginationResponse(query, total)})
}

// @Summary Get Supplier
// @Tags Catalog
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Success 200 {object} models.SupplierResponse
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [get]
func (h *SupplierHandler) Show(c *gin.Context) {
	supplier, err := h.catalogService.FindSupplier(c.Request.Context(), pathID(c, "supplier_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier.ToResponse()})
}

type SupplierRequest struct {
	Name    string  `json:"name"`
	RTN     string  `json:"rtn"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// @Summary Create Supplier
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body SupplierRequest true "Supplier"
// @Success 201 {object} models.SupplierResponse
// @Security BearerAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req SupplierRequest
	if err := BindNestedOrFlat(c, "supplier", &req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido"})
		return
	}

	supplier := &models.Supplier{
		Name:    req.Name,
		RTN:     req.RTN,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Active:  true,
	}
	if err := h.catalogService.CreateSupplier(c.Request.Context(), supplier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"supplier": supplier.ToResponse(), "message": "Proveedor registrado"})
}

// @Summary Update Supplier
// @Tags Catalog
// @Accept json
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Param request body SupplierRequest true "Changes"
// @Success 200 {object} models.SupplierResponse
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	var req SupplierRequest
	if err := BindNestedOrFlat(c, "supplier", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	supplier, err := h.catalogService.UpdateSupplier(c.Request.Context(), pathID(c, "supplier_id"), func(s *models.Supplier) {
		if req.Name != "" {
			s.Name = req.Name
		}
		if req.RTN != "" {
			s.RTN = req.RTN
		}
		if req.Phone != "" {
			s.Phone = req.Phone
		}
		if req.Email != "" {
			s.Email = req.Email
		}
		if req.Address != nil {
			s.Address = req.Address
		}
		if req.Active != nil {
			s.Active = *req.Active
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier.ToResponse(), "message": "Proveedor actualizado"})
}

// --- Employees ---

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// @Summary List Employees
// @Tags Staff
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /employees [get]
func (h *EmployeeHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	query.Filters["position"] = c.Query("position")
	query.Filters["active"] = c.Query("active")

	employees, total, err := h.employeeService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range employees {
		responses = append(responses, e.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"employees": responses, "pagination": paginationResponse(query, total)})
}

// @Summary List Technicians
// @Description Get the active technicians for assignment dropdowns
// @Tags Staff
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /employees/technicians [get]
func (h *EmployeeHandler) Technicians(c *gin.Context) {
	technicians, err := h.employeeService.Technicians(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, t := range technicians {
		responses = append(responses, t.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"technicians": responses})
}

// @Summary Get Employee
// @Tags Staff
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Success 200 {object} models.EmployeeResponse
// @Security BearerAuth
// @Router /employees/{employee_id} [get]
func (h *EmployeeHandler) Show(c *gin.Context) {
	employee, err := h.employeeService.FindByID(c.Request.Context(), pathID(c, "employee_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee": employee.ToResponse()})
}

type EmployeeRequest struct {
	FullName string   `json:"full_name"`
	Identity string   `json:"identity"`
	Position string   `json:"position"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Salary   *float64 `json:"salary"`
	HiredAt  string   `json:"hired_at"`
	Active   *bool    `json:"active"`
}

// @Summary Create Employee
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body EmployeeRequest true "Employee"
// @Success 201 {object} models.EmployeeResponse
// @Security BearerAuth
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req EmployeeRequest
	if err := BindNestedOrFlat(c, "employee", &req); err != nil || req.FullName == "" || req.Position == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y puesto son requeridos"})
		return
	}

	employee := &models.Employee{
		FullName: req.FullName,
		Identity: req.Identity,
		Position: req.Position,
		Phone:    req.Phone,
		Email:    req.Email,
		Active:   true,
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.HiredAt != "" {
		hiredAt, err := parseDate(req.HiredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de contratación inválida"})
			return
		}
		employee.HiredAt = hiredAt
	}
	if err := h.employeeService.Create(c.Request.Context(), employee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"employee": employee.ToResponse(), "message": "Empleado registrado"})
}

// @Summary Update Employee
// @Tags Staff
// @Accept json
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Param request body EmployeeRequest true "Changes"
// @Success 200 {object} models.EmployeeResponse
// @Security BearerAuth
// @Router /employees/{employee_id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req EmployeeRequest
	if err := BindNestedOrFlat(c, "employee", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	input := services.UpdateEmployeeInput{
		Salary: req.Salary,
		Active: req.Active,
	}
	if req.FullName != "" {
		input.FullName = &req.FullName
	}
	if req.Position != "" {
		input.Position = &req.Position
	}
	if req.Phone != "" {
		input.Phone = &req.Phone
	}
	if req.Email != "" {
		input.Email = &req.Email
	}

	employee, err := h.employeeService.Update(c.Request.Context(), pathID(c, "employee_id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee": employee.ToResponse(), "message": "Empleado actualizado"})
}

// @Summary Delete Employee
// @Tags Staff
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /employees/{employee_id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeService.SoftDelete(c.Request.Context(), pathID(c, "employee_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Empleado eliminado"})
}
