package services

import (
	"math"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
)

// Pure ledger arithmetic. Everything here is deterministic: no clock,
// no database, amounts in, amounts out. The service layer composes
// these under a transaction.

// RoundMoney normalizes an amount to 2 decimal places. All derived
// amounts pass through here so float drift never reaches the database.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// EntryStatusFor resolves the status a collection leaves behind:
// the full amount due closes the entry as paid, anything less leaves
// it partial.
func EntryStatusFor(amountDue, amountPaid float64) string {
	if amountPaid >= amountDue {
		return models.EntryStatusPaid
	}
	return models.EntryStatusPartial
}

// CarryoverFor returns the unpaid remainder a collection pushes onto
// the next month, floored at zero.
func CarryoverFor(amountDue, amountPaid float64) float64 {
	return RoundMoney(math.Max(0, amountDue-amountPaid))
}

// OverdueSnapshotFor freezes the shortfall on the entry itself. Only a
// partial entry carries a snapshot; a paid entry owes nothing.
func OverdueSnapshotFor(status string, carryover float64) float64 {
	if status == models.EntryStatusPartial {
		return carryover
	}
	return 0
}

// NextAmountDue is the obligation of the month that follows a closed
// entry: the plan's base installment plus whatever the predecessor
// left unpaid.
func NextAmountDue(monthlyInstallment, carryover float64) float64 {
	return RoundMoney(monthlyInstallment + carryover)
}

// NextDueDate advances one calendar month. Overflow follows Go's
// AddDate normalization (Jan 31 + 1 month = Mar 2/3), matching how
// the collection calendar has always been kept.
func NextDueDate(dueDate time.Time) time.Time {
	return dueDate.AddDate(0, 1, 0)
}

// ValidPaidAmount reports whether a collection amount is acceptable
// against an entry's amount due: positive and never above the debt.
func ValidPaidAmount(amountDue, amountPaid float64) bool {
	return amountPaid > 0 && amountPaid <= amountDue
}
