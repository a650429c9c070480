package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverdueDaysAt(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 10)

	tests := []struct {
		name     string
		entry    InstallmentEntry
		expected int
	}{
		{"Pending past due", InstallmentEntry{Status: EntryStatusPending, DueDate: due}, 10},
		{"Partial tail ages like a pending entry", InstallmentEntry{Status: EntryStatusPartial, DueDate: due}, 10},
		{"Paid entry keeps its date-derived age", InstallmentEntry{Status: EntryStatusPaid, DueDate: due}, 10},
		{"Not yet due", InstallmentEntry{Status: EntryStatusPending, DueDate: now.AddDate(0, 0, 5)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.OverdueDaysAt(now))
		})
	}
}

func TestIsLateAt(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 10)

	// Lateness-by-inaction is a pending-only condition; closed entries
	// report their age through OverdueDaysAt instead.
	assert.True(t, (&InstallmentEntry{Status: EntryStatusPending, DueDate: due}).IsLateAt(now))
	assert.False(t, (&InstallmentEntry{Status: EntryStatusPartial, DueDate: due}).IsLateAt(now))
	assert.False(t, (&InstallmentEntry{Status: EntryStatusPaid, DueDate: due}).IsLateAt(now))
	assert.False(t, (&InstallmentEntry{Status: EntryStatusPending, DueDate: now.AddDate(0, 0, 1)}).IsLateAt(now))
}
