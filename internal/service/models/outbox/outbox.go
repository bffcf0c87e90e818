package outbox

import (
	"time"
)

// Message is a transactional outbox row: an event written in the same
// transaction as the state change it describes, delivered to RabbitMQ
// by the outbox worker.
type Message struct {
	ID           int64
	EventID      string
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// OrderCreatedEvent is the payload published for every committed order.
type OrderCreatedEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  int64     `json:"customer_id"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	CreatedAt   time.Time `json:"created_at"`
}
