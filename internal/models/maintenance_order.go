package models

import (
	"strings"
	"time"
)

// MaintenanceOrder is a scheduled service visit for a customer's equipment
type MaintenanceOrder struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CustomerID    uint       `gorm:"not null;index" json:"customer_id"`
	ServiceItemID uint       `gorm:"not null;index" json:"service_item_id"`
	TechnicianID  *uint      `gorm:"index" json:"technician_id"`
	Status        string     `gorm:"default:scheduled;not null;index" json:"status"`
	ScheduledFor  time.Time  `gorm:"not null;index" json:"scheduled_for"`
	CompletedAt   *time.Time `json:"completed_at"`
	Diagnosis     *string    `gorm:"type:text" json:"diagnosis"`
	EvidencePaths *string    `gorm:"type:text" json:"-"` // comma-separated relative paths
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Customer    Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceItem ServiceItem `gorm:"foreignKey:ServiceItemID" json:"service_item,omitempty"`
	Technician  *Employee   `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
}

// TableName specifies the table name for MaintenanceOrder
func (MaintenanceOrder) TableName() string {
	return "maintenance_orders"
}

// Maintenance status constants
const (
	MaintenanceStatusScheduled = "scheduled"
	MaintenanceStatusInRoute   = "in_route"
	MaintenanceStatusCompleted = "completed"
	MaintenanceStatusCancelled = "cancelled"
)

// MayComplete returns true if the order can be marked completed
func (m *MaintenanceOrder) MayComplete() bool {
	return m.Status == MaintenanceStatusScheduled || m.Status == MaintenanceStatusInRoute
}

// Evidence returns the stored evidence file paths
func (m *MaintenanceOrder) Evidence() []string {
	if m.EvidencePaths == nil || *m.EvidencePaths == "" {
		return nil
	}
	return strings.Split(*m.EvidencePaths, ",")
}

// AddEvidence appends an uploaded file path
func (m *MaintenanceOrder) AddEvidence(path string) {
	paths := append(m.Evidence(), path)
	joined := strings.Join(paths, ",")
	m.EvidencePaths = &joined
}

// MaintenanceOrderResponse is the JSON response format for maintenance orders
type MaintenanceOrderResponse struct {
	ID             uint       `json:"id"`
	CustomerID     uint       `json:"customer_id"`
	CustomerName   string     `json:"customer_name,omitempty"`
	ServiceName    string     `json:"service_name,omitempty"`
	TechnicianName string     `json:"technician_name,omitempty"`
	Status         string     `json:"status"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	CompletedAt    *time.Time `json:"completed_at"`
	Diagnosis      *string    `json:"diagnosis"`
	EvidenceCount  int        `json:"evidence_count"`
}

// ToResponse converts MaintenanceOrder to MaintenanceOrderResponse
func (m *MaintenanceOrder) ToResponse() MaintenanceOrderResponse {
	resp := MaintenanceOrderResponse{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		Status:        m.Status,
		ScheduledFor:  m.ScheduledFor,
		CompletedAt:   m.CompletedAt,
		Diagnosis:     m.Diagnosis,
		EvidenceCount: len(m.Evidence()),
	}
	if m.Customer.ID != 0 {
		resp.CustomerName = m.Customer.FullName
	}
	if m.ServiceItem.ID != 0 {
		resp.ServiceName = m.ServiceItem.Name
	}
	if m.Technician != nil && m.Technician.ID != 0 {
		resp.TechnicianName = m.Technician.FullName
	}
	return resp
}
