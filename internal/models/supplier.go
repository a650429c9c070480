package models

import (
	"time"
)

// Supplier represents an equipment provider
type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	RTN       string    `gorm:"column:rtn" json:"rtn"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   *string   `json:"address"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Equipment []Equipment `gorm:"foreignKey:SupplierID" json:"equipment,omitempty"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierResponse is the JSON response format for suppliers
type SupplierResponse struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	RTN     string  `json:"rtn"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Address *string `json:"address"`
	Active  bool    `json:"active"`
}

// ToResponse converts Supplier to SupplierResponse
func (s *Supplier) ToResponse() SupplierResponse {
	return SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		RTN:     s.RTN,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.Address,
		Active:  s.Active,
	}
}
