package models

import (
	"time"
)

// ServiceItem is an entry in the company's service catalog (repairs,
// preventive maintenance, installations)
type ServiceItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Price           float64   `gorm:"type:decimal(15,2);not null" json:"price"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	Description     *string   `gorm:"type:text" json:"description"`
	Active          bool      `gorm:"default:true;index" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for ServiceItem
func (ServiceItem) TableName() string {
	return "service_items"
}

// ServiceItemResponse is the JSON response format for service items
type ServiceItemResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Description     *string `json:"description"`
	Active          bool    `json:"active"`
}

// ToResponse converts ServiceItem to ServiceItemResponse
func (s *ServiceItem) ToResponse() ServiceItemResponse {
	return ServiceItemResponse{
		ID:              s.ID,
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Description:     s.Description,
		Active:          s.Active,
	}
}
