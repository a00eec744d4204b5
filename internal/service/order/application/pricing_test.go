package application

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mall/internal/service/order/domain"
)

func TestTotalOf(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.CartItem
		want  string
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  "0",
		},
		{
			name: "single line",
			items: []domain.CartItem{
				{UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
			},
			want: "6.99",
		},
		{
			name: "mixed lines keep exact decimal sum",
			items: []domain.CartItem{
				{UnitPrice: decimal.NewFromFloat(6.99), Quantity: 1},
				{UnitPrice: decimal.NewFromFloat(4.50), Quantity: 2},
			},
			want: "15.99",
		},
		{
			name: "zero quantity contributes nothing",
			items: []domain.CartItem{
				{UnitPrice: decimal.NewFromFloat(9.00), Quantity: 0},
				{UnitPrice: decimal.NewFromFloat(7.49), Quantity: 1},
			},
			want: "7.49",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := TotalOf(tt.items)
			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, total.Equal(want), "got %s, want %s", total, want)
		})
	}
}
