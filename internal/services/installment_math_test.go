package services

import (
	"testing"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 1000.0, RoundMoney(1000.0))
	assert.Equal(t, 333.33, RoundMoney(999.99/3))
	assert.Equal(t, 0.1, RoundMoney(0.1+0.2-0.2))
	assert.Equal(t, -5.25, RoundMoney(-5.249999999))
}

func TestEntryStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		amountDue  float64
		amountPaid float64
		expected   string
	}{
		{"Full payment closes as paid", 1000, 1000, models.EntryStatusPaid},
		{"Partial payment leaves partial", 1000, 600, models.EntryStatusPartial},
		{"One cent short is still partial", 1000, 999.99, models.EntryStatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EntryStatusFor(tt.amountDue, tt.amountPaid))
		})
	}
}

func TestCarryoverFor(t *testing.T) {
	assert.Equal(t, 400.0, CarryoverFor(1000, 600))
	assert.Equal(t, 0.0, CarryoverFor(1000, 1000))
	// Overpayment never produces a negative carryover
	assert.Equal(t, 0.0, CarryoverFor(1000, 1200))
	assert.Equal(t, 0.01, CarryoverFor(1000, 999.99))
}

func TestOverdueSnapshotFor(t *testing.T) {
	assert.Equal(t, 400.0, OverdueSnapshotFor(models.EntryStatusPartial, 400))
	assert.Equal(t, 0.0, OverdueSnapshotFor(models.EntryStatusPaid, 400))
	assert.Equal(t, 0.0, OverdueSnapshotFor(models.EntryStatusPending, 400))
}

func TestNextAmountDue(t *testing.T) {
	assert.Equal(t, 1000.0, NextAmountDue(1000, 0))
	assert.Equal(t, 1400.0, NextAmountDue(1000, 400))
	assert.Equal(t, 1000.01, NextAmountDue(1000, 0.005))
}

func TestNextDueDate(t *testing.T) {
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), NextDueDate(jan15))

	// Month-end overflow follows AddDate normalization
	jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), NextDueDate(jan31))

	dec := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC), NextDueDate(dec))
}

func TestValidPaidAmount(t *testing.T) {
	assert.True(t, ValidPaidAmount(1000, 600))
	assert.True(t, ValidPaidAmount(1000, 1000))
	assert.False(t, ValidPaidAmount(1000, 0))
	assert.False(t, ValidPaidAmount(1000, -50))
	assert.False(t, ValidPaidAmount(1000, 1000.01))
}
