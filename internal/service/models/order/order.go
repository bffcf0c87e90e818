package order

import (
	"time"

	"github.com/avolkov/shop-svc/internal/service/models/orderitem"
)

// Status is the lifecycle state of an order. Orders are immutable once
// committed, so the only state assigned by this service is pending.
type Status string

const (
	StatusPending Status = "pending"
)

// Order represents a committed customer order.
type Order struct {
	ID         int64  `json:"id"`
	Number     string `json:"number"`
	CustomerID int64  `json:"customerId"`
	// CustomerName is resolved from the customer record for display and
	// is not persisted on the order row.
	CustomerName string                `json:"customerName,omitempty"`
	Status       Status                `json:"status"`
	OrderDate    time.Time             `json:"orderDate"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	OrderItems   []orderitem.OrderItem `json:"orderItems"`
}

// Total returns the order total in cents: the sum of quantity times the
// price captured at order creation. Later product price changes never
// affect it.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.OrderItems {
		total += int64(item.Quantity) * item.PriceCents
	}

	return total
}
