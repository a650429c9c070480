package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:        "Nested Structure",
			key:         "collection",
			body:        `{"collection": {"amount": 1500.50, "note": "pago parcial"}}`,
			expected:    bindTarget{Amount: 1500.50, Note: "pago parcial"},
			expectError: false,
		},
		{
			name:        "Flat Structure",
			key:         "collection",
			body:        `{"amount": 1000, "note": "pago completo"}`,
			expected:    bindTarget{Amount: 1000, Note: "pago completo"},
			expectError: false,
		},
		{
			name:        "Missing Key Falls Back to Flat",
			key:         "collection",
			body:        `{"other": "value", "amount": 700}`,
			expected:    bindTarget{Amount: 700},
			expectError: false,
		},
		{
			name:        "Different Key",
			key:         "sale",
			body:        `{"sale": {"amount": 250}}`,
			expected:    bindTarget{Amount: 250},
			expectError: false,
		},
		{
			name:        "Invalid Flat Content",
			key:         "collection",
			body:        `{"amount": "mucho"}`,
			expected:    bindTarget{},
			expectError: true,
		},
		{
			name:        "Nested but Invalid Content",
			key:         "collection",
			body:        `{"collection": {"amount": "mucho"}}`,
			expected:    bindTarget{},
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "collection",
			body:        `{"collection": "some string"}`,
			expected:    bindTarget{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			err := BindNestedOrFlat(c, tt.key, &target)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, target)
			}
		})
	}
}
