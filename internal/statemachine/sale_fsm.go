package statemachine

import (
	"context"
	"fmt"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/looplab/fsm"
)

// SaleFSM wraps a sale with its state machine
type SaleFSM struct {
	sale *models.Sale
	fsm  *fsm.FSM
}

// NewSaleFSM creates a new sale state machine
func NewSaleFSM(sale *models.Sale) *SaleFSM {
	sfsm := &SaleFSM{
		sale: sale,
	}

	sfsm.fsm = fsm.NewFSM(
		sale.Status,
		fsm.Events{
			// pending → active (collection starts)
			{Name: "activate", Src: []string{models.SaleStatusPending}, Dst: models.SaleStatusActive},

			// pending/active → closed (cash sale settled, or plan fully collected)
			{Name: "close", Src: []string{models.SaleStatusPending, models.SaleStatusActive}, Dst: models.SaleStatusClosed},

			// pending → cancelled
			{Name: "cancel", Src: []string{models.SaleStatusPending}, Dst: models.SaleStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return sfsm
}

// Activate transitions the sale to active state
func (s *SaleFSM) Activate(ctx context.Context) error {
	if !s.sale.MayActivate() {
		return fmt.Errorf("sale cannot be activated in current state: %s", s.sale.Status)
	}

	if err := s.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate sale: %w", err)
	}

	s.sale.Status = s.fsm.Current()
	return nil
}

// Close transitions the sale to closed state
func (s *SaleFSM) Close(ctx context.Context) error {
	if !s.sale.MayClose() {
		return fmt.Errorf("sale cannot be closed in current state: %s", s.sale.Status)
	}

	if err := s.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close sale: %w", err)
	}

	s.sale.Status = s.fsm.Current()
	return nil
}

// Cancel transitions the sale to cancelled state
func (s *SaleFSM) Cancel(ctx context.Context) error {
	if !s.sale.MayCancel() {
		return fmt.Errorf("sale cannot be cancelled in current state: %s", s.sale.Status)
	}

	if err := s.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel sale: %w", err)
	}

	s.sale.Status = s.fsm.Current()
	return nil
}

// Current returns the current state
func (s *SaleFSM) Current() string {
	return s.fsm.Current()
}

// Can checks if a transition is possible
func (s *SaleFSM) Can(event string) bool {
	return s.fsm.Can(event)
}
