package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/looplab/fsm"
)

// InstallmentFSM wraps an installment entry with its state machine
type InstallmentFSM struct {
	entry *models.InstallmentEntry
	fsm   *fsm.FSM
}

// NewInstallmentFSM creates a new installment entry state machine
func NewInstallmentFSM(entry *models.InstallmentEntry) *InstallmentFSM {
	ifsm := &InstallmentFSM{
		entry: entry,
	}

	ifsm.fsm = fsm.NewFSM(
		entry.Status,
		fsm.Events{
			// pending/partial → partial (payment below the amount due;
			// partial → partial is a re-collection of the tail entry)
			{Name: "collect_partial", Src: []string{models.EntryStatusPending, models.EntryStatusPartial}, Dst: models.EntryStatusPartial},

			// pending/partial → paid
			{Name: "collect_full", Src: []string{models.EntryStatusPending, models.EntryStatusPartial}, Dst: models.EntryStatusPaid},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// CollectPartial transitions the entry to partial state
func (i *InstallmentFSM) CollectPartial(ctx context.Context) error {
	if !i.entry.MayCollect() {
		return fmt.Errorf("entry cannot be collected in current state: %s", i.entry.Status)
	}

	if err := i.fsm.Event(ctx, "collect_partial"); err != nil {
		// partial → partial is a valid re-collection, not a transition
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return fmt.Errorf("failed to collect entry: %w", err)
		}
	}

	i.entry.Status = i.fsm.Current()
	return nil
}

// CollectFull transitions the entry to paid state
func (i *InstallmentFSM) CollectFull(ctx context.Context) error {
	if !i.entry.MayCollect() {
		return fmt.Errorf("entry cannot be collected in current state: %s", i.entry.Status)
	}

	if err := i.fsm.Event(ctx, "collect_full"); err != nil {
		return fmt.Errorf("failed to collect entry: %w", err)
	}

	i.entry.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InstallmentFSM) Current() string {
	return i.fsm.Current()
}

// Can checks if a transition is possible
func (i *InstallmentFSM) Can(event string) bool {
	return i.fsm.Can(event)
}
