package models

import (
	"time"
)

// Customer represents a client of the company
type Customer struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FullName    string     `gorm:"not null" json:"full_name"`
	Identity    string     `gorm:"uniqueIndex" json:"identity"`
	RTN         string     `gorm:"column:rtn" json:"rtn"`
	Phone       string     `json:"phone"`
	Email       string     `gorm:"index" json:"email"`
	Address     *string    `json:"address"`
	Note        *string    `gorm:"type:text" json:"note"`
	Active      bool       `gorm:"default:true;index" json:"active"`
	DiscardedAt *time.Time `gorm:"index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Sales         []Sale          `gorm:"foreignKey:CustomerID" json:"sales,omitempty"`
	Subscriptions []Subscription  `gorm:"foreignKey:CustomerID" json:"subscriptions,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// IsDiscarded returns true if customer is soft-deleted
func (c *Customer) IsDiscarded() bool {
	return c.DiscardedAt != nil
}

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"full_name"`
	Identity  string    `json:"identity"`
	RTN       string    `json:"rtn"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   *string   `json:"address"`
	Note      *string   `json:"note"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Identity:  maskIdentity(c.Identity),
		RTN:       c.RTN,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Note:      c.Note,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

// maskIdentity hides the middle digits of an identity document
func maskIdentity(identity string) string {
	if len(identity) < 6 {
		return identity
	}
	masked := identity[:4]
	for i := 4; i < len(identity)-2; i++ {
		masked += "*"
	}
	return masked + identity[len(identity)-2:]
}
