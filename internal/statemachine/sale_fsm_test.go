package statemachine

import (
	"context"
	"testing"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleLifecycle(t *testing.T) {
	tests := []struct {
		name        string
		from        string
		transition  func(*SaleFSM) error
		expected    string
		expectError bool
	}{
		{"Pending sale activates", models.SaleStatusPending, func(m *SaleFSM) error { return m.Activate(context.Background()) }, models.SaleStatusActive, false},
		{"Pending cash sale closes directly", models.SaleStatusPending, func(m *SaleFSM) error { return m.Close(context.Background()) }, models.SaleStatusClosed, false},
		{"Active sale closes", models.SaleStatusActive, func(m *SaleFSM) error { return m.Close(context.Background()) }, models.SaleStatusClosed, false},
		{"Pending sale cancels", models.SaleStatusPending, func(m *SaleFSM) error { return m.Cancel(context.Background()) }, models.SaleStatusCancelled, false},
		{"Active sale cannot cancel", models.SaleStatusActive, func(m *SaleFSM) error { return m.Cancel(context.Background()) }, models.SaleStatusActive, true},
		{"Closed sale cannot activate", models.SaleStatusClosed, func(m *SaleFSM) error { return m.Activate(context.Background()) }, models.SaleStatusClosed, true},
		{"Cancelled sale cannot close", models.SaleStatusCancelled, func(m *SaleFSM) error { return m.Close(context.Background()) }, models.SaleStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := &models.Sale{Status: tt.from}
			machine := NewSaleFSM(sale)

			err := tt.transition(machine)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, sale.Status)
		})
	}
}
