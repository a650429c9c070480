package models

import (
	"time"
)

// Invoice represents a fiscal document issued for a sale or a subscription charge
type Invoice struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Number       string     `gorm:"uniqueIndex;not null" json:"number"`
	CustomerID   uint       `gorm:"not null;index" json:"customer_id"`
	SaleID       *uint      `gorm:"index" json:"sale_id"`
	Subtotal     float64    `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	Tax          float64    `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Total        float64    `gorm:"type:decimal(15,2);not null" json:"total"`
	Status       string     `gorm:"default:issued;not null;index" json:"status"`
	IssuedAt     time.Time  `gorm:"not null;index" json:"issued_at"`
	VoidedAt     *time.Time `json:"voided_at"`
	Description  *string    `gorm:"type:text" json:"description"`
	DocumentPath *string    `json:"-"` // rendered PDF path
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Sale     *Sale    `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusIssued = "issued"
	InvoiceStatusVoided = "voided"
)

// MayVoid returns true if the invoice can be voided
func (i *Invoice) MayVoid() bool {
	return i.Status == InvoiceStatusIssued
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID           uint       `json:"id"`
	Number       string     `json:"number"`
	CustomerID   uint       `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	SaleID       *uint      `json:"sale_id"`
	Subtotal     float64    `json:"subtotal"`
	Tax          float64    `json:"tax"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
	IssuedAt     time.Time  `json:"issued_at"`
	VoidedAt     *time.Time `json:"voided_at"`
	Description  *string    `json:"description"`
	HasPDF       bool       `json:"has_pdf"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:          i.ID,
		Number:      i.Number,
		CustomerID:  i.CustomerID,
		SaleID:      i.SaleID,
		Subtotal:    i.Subtotal,
		Tax:         i.Tax,
		Total:       i.Total,
		Status:      i.Status,
		IssuedAt:    i.IssuedAt,
		VoidedAt:    i.VoidedAt,
		Description: i.Description,
		HasPDF:      i.DocumentPath != nil && *i.DocumentPath != "",
	}
	if i.Customer.ID != 0 {
		resp.CustomerName = i.Customer.FullName
	}
	return resp
}
