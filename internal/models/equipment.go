package models

import (
	"time"
)

// Equipment represents a product sold by the company
type Equipment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SupplierID  *uint     `gorm:"index" json:"supplier_id"`
	Name        string    `gorm:"not null" json:"name"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	SerialCode  string    `gorm:"index" json:"serial_code"`
	Price       float64   `gorm:"type:decimal(15,2);not null" json:"price"`
	Stock       int       `gorm:"default:0;not null" json:"stock"`
	Description *string   `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// TableName specifies the table name for Equipment
func (Equipment) TableName() string {
	return "equipment"
}

// InStock returns true when there are units available
func (e *Equipment) InStock() bool {
	return e.Stock > 0
}

// EquipmentResponse is the JSON response format for equipment
type EquipmentResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	SerialCode   string  `json:"serial_code"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Description  *string `json:"description"`
	Active       bool    `json:"active"`
	SupplierName string  `json:"supplier_name,omitempty"`
}

// ToResponse converts Equipment to EquipmentResponse
func (e *Equipment) ToResponse() EquipmentResponse {
	resp := EquipmentResponse{
		ID:          e.ID,
		Name:        e.Name,
		Brand:       e.Brand,
		Model:       e.Model,
		SerialCode:  e.SerialCode,
		Price:       e.Price,
		Stock:       e.Stock,
		Description: e.Description,
		Active:      e.Active,
	}
	if e.Supplier != nil && e.Supplier.ID != 0 {
		resp.SupplierName = e.Supplier.Name
	}
	return resp
}
