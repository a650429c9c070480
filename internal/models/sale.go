package models

import (
	"time"
)

// Sale represents the sale of equipment to a customer, either cash or credit
type Sale struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	EmployeeID  *uint      `gorm:"index" json:"employee_id"`
	EquipmentID uint       `gorm:"not null;index" json:"equipment_id"`
	Quantity    int        `gorm:"default:1;not null" json:"quantity"`
	SaleType    string     `gorm:"default:cash;not null" json:"sale_type"`
	Status      string     `gorm:"default:pending;not null;index" json:"status"`
	TotalAmount float64    `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	DownPayment float64    `gorm:"type:decimal(15,2);default:0" json:"down_payment"`
	Currency    string     `gorm:"default:HNL;not null" json:"currency"`
	Note        *string    `gorm:"type:text" json:"note"`
	SoldAt      time.Time  `gorm:"index" json:"sold_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Customer  Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Employee  *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Equipment Equipment        `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Plan      *InstallmentPlan `gorm:"foreignKey:SaleID" json:"plan,omitempty"`
	Invoices  []Invoice        `gorm:"foreignKey:SaleID" json:"invoices,omitempty"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// Sale status constants
const (
	SaleStatusPending   = "pending"
	SaleStatusActive    = "active"
	SaleStatusClosed    = "closed"
	SaleStatusCancelled = "cancelled"
)

// Sale type constants
const (
	SaleTypeCash        = "cash"
	SaleTypeInstallment = "installment"
)

// IsCredit returns true for installment sales
func (s *Sale) IsCredit() bool {
	return s.SaleType == SaleTypeInstallment
}

// FinancedAmount is the remainder collected through the installment plan
func (s *Sale) FinancedAmount() float64 {
	return s.TotalAmount - s.DownPayment
}

// MayActivate returns true if the sale can start collection
func (s *Sale) MayActivate() bool {
	return s.Status == SaleStatusPending
}

// MayClose returns true if the sale can be closed
func (s *Sale) MayClose() bool {
	return s.Status == SaleStatusActive || s.Status == SaleStatusPending
}

// MayCancel returns true if the sale can be cancelled
func (s *Sale) MayCancel() bool {
	return s.Status == SaleStatusPending
}

// SaleResponse is the JSON response format for sales
type SaleResponse struct {
	ID            uint       `json:"id"`
	CustomerID    uint       `json:"customer_id"`
	CustomerName  string     `json:"customer_name,omitempty"`
	EquipmentID   uint       `json:"equipment_id"`
	EquipmentName string     `json:"equipment_name,omitempty"`
	SellerName    string     `json:"seller_name,omitempty"`
	Quantity      int        `json:"quantity"`
	SaleType      string     `json:"sale_type"`
	Status        string     `json:"status"`
	TotalAmount   float64    `json:"total_amount"`
	DownPayment   float64    `json:"down_payment"`
	Currency      string     `json:"currency"`
	Note          *string    `json:"note"`
	SoldAt        time.Time  `json:"sold_at"`
	ClosedAt      *time.Time `json:"closed_at"`
	PlanID        *uint      `json:"plan_id,omitempty"`
}

// ToResponse converts Sale to SaleResponse
func (s *Sale) ToResponse() SaleResponse {
	resp := SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		EquipmentID: s.EquipmentID,
		Quantity:    s.Quantity,
		SaleType:    s.SaleType,
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		DownPayment: s.DownPayment,
		Currency:    s.Currency,
		Note:        s.Note,
		SoldAt:      s.SoldAt,
		ClosedAt:    s.ClosedAt,
	}
	if s.Customer.ID != 0 {
		resp.CustomerName = s.Customer.FullName
	}
	if s.Equipment.ID != 0 {
		resp.EquipmentName = s.Equipment.Name
	}
	if s.Employee != nil && s.Employee.ID != 0 {
		resp.SellerName = s.Employee.FullName
	}
	if s.Plan != nil && s.Plan.ID != 0 {
		resp.PlanID = &s.Plan.ID
	}
	return resp
}
