package models

import (
	"time"
)

// InstallmentEntry is one scheduled monthly obligation within a plan's sequence.
// Entries are ordered by due date; the sequence grows one entry at a time as each
// predecessor closes. A closed entry (paid or partial) is append-only history,
// except that the chronologically last partial entry may still be re-collected.
type InstallmentEntry struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PlanID          uint       `gorm:"not null;index" json:"plan_id"`
	CustomerID      uint       `gorm:"not null;index" json:"customer_id"`
	AmountDue       float64    `gorm:"type:decimal(15,2);not null" json:"amount_due"`
	AmountPaid      float64    `gorm:"type:decimal(15,2);default:0;not null" json:"amount_paid"`
	CarryoverAmount float64    `gorm:"type:decimal(15,2);default:0;not null" json:"carryover_amount"`
	OverdueAmount   float64    `gorm:"type:decimal(15,2);default:0;not null" json:"overdue_amount"`
	Status          string     `gorm:"default:pending;not null;index" json:"status"`
	DueDate         time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	PaymentDate     *time.Time `gorm:"type:date" json:"payment_date"`
	Notes           *string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Plan     InstallmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Customer Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for InstallmentEntry
func (InstallmentEntry) TableName() string {
	return "installment_entries"
}

// Entry status constants
const (
	EntryStatusPending = "pending"
	EntryStatusPartial = "partial"
	EntryStatusPaid    = "paid"
)

// Closed returns true once a payment has been recorded against the entry.
func (e *InstallmentEntry) Closed() bool {
	return e.Status == EntryStatusPaid || e.Status == EntryStatusPartial
}

// Untouched returns true if the entry never received a payment attempt.
// Only untouched pending entries may be deleted (administrative cleanup).
func (e *InstallmentEntry) Untouched() bool {
	return e.Status == EntryStatusPending && e.AmountPaid == 0 && e.PaymentDate == nil
}

// MayCollect returns true if the entry can still receive a payment.
// Fully paid entries are immutable; the tail rule for partial entries
// is enforced at the service level because it needs the whole sequence.
func (e *InstallmentEntry) MayCollect() bool {
	return e.Status == EntryStatusPending || e.Status == EntryStatusPartial
}

// IsLateAt reports whether the entry is late due to inaction: still pending
// and past its due date. This is derived from the clock on every read, never
// stored, so overdue scans can be re-run idempotently.
func (e *InstallmentEntry) IsLateAt(now time.Time) bool {
	return e.Status == EntryStatusPending && e.DueDate.Before(now)
}

// OverdueDaysAt returns whole days elapsed since the due date, floored at
// zero. Purely date-derived, so a partial tail past its due date reports
// its age the same way a pending entry does.
func (e *InstallmentEntry) OverdueDaysAt(now time.Time) int {
	if !e.DueDate.Before(now) {
		return 0
	}
	return int(now.Sub(e.DueDate).Hours() / 24)
}

// IsLate reports lateness against the wall clock (read-side convenience).
func (e *InstallmentEntry) IsLate() bool {
	return e.IsLateAt(time.Now())
}

// OverdueDays returns days overdue against the wall clock
func (e *InstallmentEntry) OverdueDays() int {
	return e.OverdueDaysAt(time.Now())
}

// InstallmentEntryResponse is the JSON response format for entries
type InstallmentEntryResponse struct {
	ID              uint       `json:"id"`
	PlanID          uint       `json:"plan_id"`
	CustomerID      uint       `json:"customer_id"`
	AmountDue       float64    `json:"amount_due"`
	AmountPaid      float64    `json:"amount_paid"`
	CarryoverAmount float64    `json:"carryover_amount"`
	OverdueAmount   float64    `json:"overdue_amount"`
	Status          string     `json:"status"`
	DueDate         time.Time  `json:"due_date"`
	PaymentDate     *time.Time `json:"payment_date"`
	Notes           *string    `json:"notes"`
	IsLate          bool       `json:"is_late"`
	OverdueDays     int        `json:"overdue_days"`
	CustomerName    string     `json:"customer_name,omitempty"`
}

// ToResponse converts InstallmentEntry to InstallmentEntryResponse
func (e *InstallmentEntry) ToResponse() InstallmentEntryResponse {
	resp := InstallmentEntryResponse{
		ID:              e.ID,
		PlanID:          e.PlanID,
		CustomerID:      e.CustomerID,
		AmountDue:       e.AmountDue,
		AmountPaid:      e.AmountPaid,
		CarryoverAmount: e.CarryoverAmount,
		OverdueAmount:   e.OverdueAmount,
		Status:          e.Status,
		DueDate:         e.DueDate,
		PaymentDate:     e.PaymentDate,
		Notes:           e.Notes,
		IsLate:          e.IsLate(),
		OverdueDays:     e.OverdueDays(),
	}
	if e.Customer.ID != 0 {
		resp.CustomerName = e.Customer.FullName
	}
	return resp
}
