package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avolkov/shop-svc/internal/service/models/orderitem"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []orderitem.OrderItem
		want  int64
	}{
		{
			name:  "no items",
			items: nil,
			want:  0,
		},
		{
			name: "single item",
			items: []orderitem.OrderItem{
				{Quantity: 3, PriceCents: 999},
			},
			want: 2997,
		},
		{
			name: "multiple items",
			items: []orderitem.OrderItem{
				{Quantity: 2, PriceCents: 999},
				{Quantity: 1, PriceCents: 2500},
			},
			want: 4498,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := Order{OrderItems: tc.items}
			assert.Equal(t, tc.want, o.Total())
		})
	}
}

func TestNewNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	number := NewNumber(now)

	assert.Regexp(t, `^ORD-20250314-\d{5}$`, number)
}
