package models

import (
	"time"
)

// Employee represents a member of the company staff
type Employee struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FullName    string     `gorm:"not null" json:"full_name"`
	Identity    string     `gorm:"uniqueIndex" json:"identity"`
	Position    string     `gorm:"not null" json:"position"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Salary      float64    `gorm:"type:decimal(15,2)" json:"salary"`
	HiredAt     time.Time  `gorm:"type:date" json:"hired_at"`
	Active      bool       `gorm:"default:true;index" json:"active"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

// Position constants
const (
	PositionTechnician = "technician"
	PositionSeller     = "seller"
	PositionCashier    = "cashier"
	PositionManager    = "manager"
)

// EmployeeResponse is the JSON response format for employees
type EmployeeResponse struct {
	ID       uint      `json:"id"`
	FullName string    `json:"full_name"`
	Identity string    `json:"identity"`
	Position string    `json:"position"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	Salary   float64   `json:"salary"`
	HiredAt  time.Time `json:"hired_at"`
	Active   bool      `json:"active"`
}

// ToResponse converts Employee to EmployeeResponse
func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:       e.ID,
		FullName: e.FullName,
		Identity: maskIdentity(e.Identity),
		Position: e.Position,
		Phone:    e.Phone,
		Email:    e.Email,
		Salary:   e.Salary,
		HiredAt:  e.HiredAt,
		Active:   e.Active,
	}
}
