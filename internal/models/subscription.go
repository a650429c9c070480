package models

import (
	"time"
)

// Subscription is a recurring service agreement with a customer
// (e.g. a monthly maintenance contract)
type Subscription struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CustomerID    uint       `gorm:"not null;index" json:"customer_id"`
	ServiceItemID uint       `gorm:"not null;index" json:"service_item_id"`
	MonthlyFee    float64    `gorm:"type:decimal(15,2);not null" json:"monthly_fee"`
	Status        string     `gorm:"default:active;not null;index" json:"status"`
	StartDate     time.Time  `gorm:"type:date;not null" json:"start_date"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	Note          *string    `gorm:"type:text" json:"note"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Customer    Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceItem ServiceItem `gorm:"foreignKey:ServiceItemID" json:"service_item,omitempty"`
}

// TableName specifies the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// Subscription status constants
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
)

// IsActive returns true for subscriptions currently billed
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// SubscriptionResponse is the JSON response format for subscriptions
type SubscriptionResponse struct {
	ID           uint       `json:"id"`
	CustomerID   uint       `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	ServiceName  string     `json:"service_name,omitempty"`
	MonthlyFee   float64    `json:"monthly_fee"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"start_date"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	Note         *string    `json:"note"`
}

// ToResponse converts Subscription to SubscriptionResponse
func (s *Subscription) ToResponse() SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		MonthlyFee:  s.MonthlyFee,
		Status:      s.Status,
		StartDate:   s.StartDate,
		CancelledAt: s.CancelledAt,
		Note:        s.Note,
	}
	if s.Customer.ID != 0 {
		resp.CustomerName = s.Customer.FullName
	}
	if s.ServiceItem.ID != 0 {
		resp.ServiceName = s.ServiceItem.Name
	}
	return resp
}
