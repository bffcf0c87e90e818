package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/avolkov/shop-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iorderrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iproductrepo"
	"github.com/avolkov/shop-svc/internal/dal/postgres"
	"github.com/avolkov/shop-svc/internal/dal/uow"
	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/customer"
	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/service/models/orderitem"
	"github.com/avolkov/shop-svc/internal/service/models/outbox"
)

const (
	queueOrderCreated = "shop.order.created"
	outboxMaxRetries  = 5
)

// OrderService coordinates order creation and lookups.
type OrderService struct {
	pgClient   *postgres.Client
	newUOWFunc func() unitOfWork
}

// unitOfWork is the transaction boundary the coordinator drives. One
// unit of work is created per request and every exit path either
// commits or rolls it back.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CustomerRepository() icustomerrepo.ICustomerRepository
	ProductRepository() iproductrepo.IProductRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

func (s *OrderService) newUOW() unitOfWork {
	if s.newUOWFunc != nil {
		return s.newUOWFunc()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// ItemRequest is one requested order line: a product and a quantity.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// CreateOrder validates the requested items, reserves stock and writes
// the order with its items as one transaction. On any failure nothing
// is persisted and no stock changes.
//
// Requested quantities of zero or less are dropped before validation;
// duplicate product ids are merged. Stock rows are locked in product-id
// order before checking, so two concurrent orders for the same product
// serialize and can never both pass the check.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	customerID int64,
	items []ItemRequest,
) (*order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	requested := mergeValidItems(items)
	if len(requested) == 0 {
		return nil, apperrors.ErrNoValidItems
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer work.Rollback(ctx)

	customers, err := work.CustomerRepository().Query(ctx, &customer.QueryCustomersModel{
		Ids: []int64{customerID},
	})
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, &apperrors.NotFoundError{Entity: "customer", ID: customerID}
	}

	now := time.Now()

	// Lock each product row, then check stock against the locked value.
	// Price and name snapshots come from the same locked read.
	orderItems := make([]orderitem.OrderItem, 0, len(requested))
	for _, item := range requested {
		p, err := work.ProductRepository().GetForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if p.Stock < item.Quantity {
			return nil, &apperrors.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   item.Quantity,
				Available:   p.Stock,
			}
		}

		orderItems = append(orderItems, orderitem.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			PriceCents:  p.PriceCents,
			CreatedAt:   now,
		})
	}

	inserted, err := work.OrderRepository().Insert(ctx, order.Order{
		Number:     order.NewNumber(now),
		CustomerID: customerID,
		Status:     order.StatusPending,
		OrderDate:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	for i := range orderItems {
		orderItems[i].OrderID = inserted.ID
	}
	orderItems, err = work.OrderItemRepository().BulkInsert(ctx, orderItems)
	if err != nil {
		return nil, err
	}
	inserted.OrderItems = orderItems

	for _, item := range orderItems {
		if err := work.ProductRepository().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.enqueueOrderCreated(ctx, work.OutboxRepository(), inserted, now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return inserted, nil
}

// mergeValidItems drops non-positive quantities, merges duplicate
// product ids and sorts by product id so row locks are always taken in
// the same order.
func mergeValidItems(items []ItemRequest) []ItemRequest {
	merged := make([]ItemRequest, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID < merged[j].ProductID
	})

	return merged
}

// enqueueOrderCreated writes the order.created event into the outbox
// within the same transaction as the order itself.
func (s *OrderService) enqueueOrderCreated(
	ctx context.Context,
	repo ioutboxrepo.IOutboxRepository,
	o *order.Order,
	now time.Time,
) error {
	eventID := uuid.NewString()

	payload, err := json.Marshal(outbox.OrderCreatedEvent{
		EventID:     eventID,
		OrderID:     o.ID,
		OrderNumber: o.Number,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalCents:  o.Total(),
		CreatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}

	return repo.Insert(ctx, outbox.Message{
		EventID:     eventID,
		QueueName:   queueOrderCreated,
		RoutingKey:  queueOrderCreated,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  outboxMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}

// ListOrders retrieves orders with their items and customer names.
func (s *OrderService) ListOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListOrders")
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIds := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: orderIds,
	})
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	if err := s.resolveCustomerNames(ctx, work, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrder retrieves a single order with its items and customer name.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.GetOrder")
	defer span.End()

	orders, err := s.ListOrders(ctx, order.QueryOrdersModel{Ids: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, &apperrors.NotFoundError{Entity: "order", ID: id}
	}

	return &orders[0], nil
}

func (s *OrderService) resolveCustomerNames(
	ctx context.Context,
	work unitOfWork,
	orders []order.Order,
) error {
	customerIds := make([]int64, 0, len(orders))
	seen := make(map[int64]bool, len(orders))
	for _, o := range orders {
		if !seen[o.CustomerID] {
			seen[o.CustomerID] = true
			customerIds = append(customerIds, o.CustomerID)
		}
	}

	customers, err := work.CustomerRepository().Query(ctx, &customer.QueryCustomersModel{
		Ids: customerIds,
	})
	if err != nil {
		return err
	}

	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	for i := range orders {
		orders[i].CustomerName = names[orders[i].CustomerID]
	}

	return nil
}
