package statemachine

import (
	"context"
	"testing"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectPartialFromPending(t *testing.T) {
	entry := &models.InstallmentEntry{Status: models.EntryStatusPending}
	machine := NewInstallmentFSM(entry)

	require.NoError(t, machine.CollectPartial(context.Background()))
	assert.Equal(t, models.EntryStatusPartial, entry.Status)
	assert.Equal(t, models.EntryStatusPartial, machine.Current())
}

func TestCollectFullFromPending(t *testing.T) {
	entry := &models.InstallmentEntry{Status: models.EntryStatusPending}
	machine := NewInstallmentFSM(entry)

	require.NoError(t, machine.CollectFull(context.Background()))
	assert.Equal(t, models.EntryStatusPaid, entry.Status)
}

func TestRecollectPartialStaysPartial(t *testing.T) {
	entry := &models.InstallmentEntry{Status: models.EntryStatusPartial}
	machine := NewInstallmentFSM(entry)

	// partial → partial is a re-collection of the tail, not a transition
	require.NoError(t, machine.CollectPartial(context.Background()))
	assert.Equal(t, models.EntryStatusPartial, entry.Status)
}

func TestSettlePartialEntry(t *testing.T) {
	entry := &models.InstallmentEntry{Status: models.EntryStatusPartial}
	machine := NewInstallmentFSM(entry)

	require.NoError(t, machine.CollectFull(context.Background()))
	assert.Equal(t, models.EntryStatusPaid, entry.Status)
}

func TestPaidEntryRejectsCollection(t *testing.T) {
	entry := &models.InstallmentEntry{Status: models.EntryStatusPaid}
	machine := NewInstallmentFSM(entry)

	assert.Error(t, machine.CollectPartial(context.Background()))
	assert.Error(t, machine.CollectFull(context.Background()))
	assert.Equal(t, models.EntryStatusPaid, entry.Status)
}
