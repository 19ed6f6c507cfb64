package validation

import (
	"testing"

	"desguace/internal/logger"
	"desguace/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidator_ValidatePart(t *testing.T) {
	v := New(logger.New("error"))

	tests := []struct {
		name    string
		part    models.Part
		wantErr []string
	}{
		{
			name: "valid part",
			part: models.Part{Name: "Caja de cambios", Price: decimal.NewFromFloat(350.5), Stock: 1},
		},
		{
			name:    "missing name",
			part:    models.Part{Name: "  ", Price: decimal.NewFromInt(10)},
			wantErr: []string{"name is required"},
		},
		{
			name:    "zero price and negative stock",
			part:    models.Part{Name: "Puerta", Stock: -1},
			wantErr: []string{"price must be greater than zero", "stock cannot be negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePart(&tt.part)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrNotPublishable)
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}
