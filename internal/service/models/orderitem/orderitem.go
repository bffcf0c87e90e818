package orderitem

import "time"

// OrderItem represents a line item within an order. ProductName and
// PriceCents are snapshots taken at order creation; the product row may
// change afterwards without affecting committed orders.
type OrderItem struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"orderId"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	PriceCents  int64     `json:"priceCents"`
	CreatedAt   time.Time `json:"createdAt"`
}
