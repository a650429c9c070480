package models

import (
	"time"
)

// InstallmentPlan holds the financing terms for one credit sale.
// Core fields are immutable once the first entry of the plan exists;
// amendments to months/amount are a separate administrative operation.
type InstallmentPlan struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	SaleID              uint      `gorm:"not null;uniqueIndex" json:"sale_id"`
	CustomerID          uint      `gorm:"not null;index" json:"customer_id"`
	NumberOfMonths      int       `gorm:"not null" json:"number_of_months"`
	MonthlyInstallment  float64   `gorm:"type:decimal(15,2);not null" json:"monthly_installment"`
	CollectionStartDate time.Time `gorm:"type:date;not null" json:"collection_start_date"`
	CollectionEndDate   time.Time `gorm:"type:date;not null" json:"collection_end_date"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Associations
	Sale     Sale               `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	Customer Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Entries  []InstallmentEntry `gorm:"foreignKey:PlanID" json:"entries,omitempty"`
}

// TableName specifies the table name for InstallmentPlan
func (InstallmentPlan) TableName() string {
	return "installment_plans"
}

// TotalScheduled returns the nominal amount the plan collects over its lifetime.
// Carryover inflation is intentionally excluded: carryover redistributes amounts
// between months, it does not change the scheduled principal.
func (p *InstallmentPlan) TotalScheduled() float64 {
	return p.MonthlyInstallment * float64(p.NumberOfMonths)
}

// InstallmentPlanResponse is the JSON response format for plans
type InstallmentPlanResponse struct {
	ID                  uint      `json:"id"`
	SaleID              uint      `json:"sale_id"`
	CustomerID          uint      `json:"customer_id"`
	NumberOfMonths      int       `json:"number_of_months"`
	MonthlyInstallment  float64   `json:"monthly_installment"`
	CollectionStartDate time.Time `json:"collection_start_date"`
	CollectionEndDate   time.Time `json:"collection_end_date"`
	TotalScheduled      float64   `json:"total_scheduled"`
	CustomerName        string    `json:"customer_name,omitempty"`
}

// ToResponse converts InstallmentPlan to InstallmentPlanResponse
func (p *InstallmentPlan) ToResponse() InstallmentPlanResponse {
	resp := InstallmentPlanResponse{
		ID:                  p.ID,
		SaleID:              p.SaleID,
		CustomerID:          p.CustomerID,
		NumberOfMonths:      p.NumberOfMonths,
		MonthlyInstallment:  p.MonthlyInstallment,
		CollectionStartDate: p.CollectionStartDate,
		CollectionEndDate:   p.CollectionEndDate,
		TotalScheduled:      p.TotalScheduled(),
	}
	if p.Customer.ID != 0 {
		resp.CustomerName = p.Customer.FullName
	}
	return resp
}
