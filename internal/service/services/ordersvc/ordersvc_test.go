package ordersvc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/shop-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iorderrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iproductrepo"
	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/customer"
	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/service/models/orderitem"
	"github.com/avolkov/shop-svc/internal/service/models/outbox"
	"github.com/avolkov/shop-svc/internal/service/models/product"
)

// fakeStore is an in-memory stand-in for the database. Its mutex plays
// the role of row locks: a begun unit of work holds it from Begin until
// Commit or Rollback, so concurrent transactions serialize the same way
// FOR UPDATE serializes them in Postgres.
type fakeStore struct {
	mu sync.Mutex

	customers map[int64]customer.Customer
	products  map[int64]product.Product
	orders    []order.Order
	items     []orderitem.OrderItem
	outbox    []outbox.Message

	nextOrderID int64
	nextItemID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:   make(map[int64]customer.Customer),
		products:    make(map[int64]product.Product),
		nextOrderID: 1,
		nextItemID:  1,
	}
}

type fakeUOW struct {
	store *fakeStore

	active bool
	done   bool

	stagedProducts map[int64]product.Product
	stagedOrders   []order.Order
	stagedItems    []orderitem.OrderItem
	stagedOutbox   []outbox.Message
}

func newFakeUOW(store *fakeStore) *fakeUOW {
	return &fakeUOW{
		store:          store,
		stagedProducts: make(map[int64]product.Product),
	}
}

func (u *fakeUOW) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	u.active = true

	return nil
}

func (u *fakeUOW) Commit(ctx context.Context) error {
	if !u.active || u.done {
		return nil
	}

	u.store.orders = append(u.store.orders, u.stagedOrders...)
	u.store.items = append(u.store.items, u.stagedItems...)
	u.store.outbox = append(u.store.outbox, u.stagedOutbox...)
	for id, p := range u.stagedProducts {
		u.store.products[id] = p
	}

	u.done = true
	u.store.mu.Unlock()

	return nil
}

func (u *fakeUOW) Rollback(ctx context.Context) error {
	if !u.active || u.done {
		return nil
	}

	u.done = true
	u.store.mu.Unlock()

	return nil
}

// enter/exit guard repo operations running outside a transaction.
func (u *fakeUOW) enter() {
	if !u.active {
		u.store.mu.Lock()
	}
}

func (u *fakeUOW) exit() {
	if !u.active {
		u.store.mu.Unlock()
	}
}

func (u *fakeUOW) CustomerRepository() icustomerrepo.ICustomerRepository {
	return &fakeCustomerRepo{u: u}
}

func (u *fakeUOW) ProductRepository() iproductrepo.IProductRepository {
	return &fakeProductRepo{u: u}
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &fakeOrderRepo{u: u}
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &fakeOrderItemRepo{u: u}
}

func (u *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &fakeOutboxRepo{u: u}
}

type fakeCustomerRepo struct{ u *fakeUOW }

func (r *fakeCustomerRepo) Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	panic("not used in these tests")
}

func (r *fakeCustomerRepo) Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error) {
	r.u.enter()
	defer r.u.exit()

	var result []customer.Customer
	if len(filter.Ids) > 0 {
		for _, id := range filter.Ids {
			if c, ok := r.u.store.customers[id]; ok {
				result = append(result, c)
			}
		}

		return result, nil
	}
	for _, c := range r.u.store.customers {
		result = append(result, c)
	}

	return result, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c customer.Customer) error { return nil }
func (r *fakeCustomerRepo) Delete(ctx context.Context, id int64) error            { return nil }

type fakeProductRepo struct{ u *fakeUOW }

func (r *fakeProductRepo) Insert(ctx context.Context, p product.Product) (*product.Product, error) {
	panic("not used in these tests")
}

func (r *fakeProductRepo) Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	r.u.enter()
	defer r.u.exit()

	var result []product.Product
	for _, id := range filter.Ids {
		if p, ok := r.u.store.products[id]; ok {
			result = append(result, p)
		}
	}

	return result, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, id int64) (*product.Product, error) {
	if p, ok := r.u.stagedProducts[id]; ok {
		return &p, nil
	}
	if p, ok := r.u.store.products[id]; ok {
		return &p, nil
	}

	return nil, &apperrors.NotFoundError{Entity: "product", ID: id}
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id int64, amount int) error {
	p, ok := r.u.stagedProducts[id]
	if !ok {
		p, ok = r.u.store.products[id]
		if !ok {
			return &apperrors.ConflictError{ProductID: id}
		}
	}

	if p.Stock < amount {
		return &apperrors.ConflictError{ProductID: id}
	}

	p.Stock -= amount
	r.u.stagedProducts[id] = p

	return nil
}

type fakeOrderRepo struct{ u *fakeUOW }

func (r *fakeOrderRepo) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	o.ID = r.u.store.nextOrderID
	r.u.store.nextOrderID++
	r.u.stagedOrders = append(r.u.stagedOrders, o)

	return &o, nil
}

func (r *fakeOrderRepo) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	r.u.enter()
	defer r.u.exit()

	matches := func(o order.Order) bool {
		if len(filter.Ids) > 0 {
			found := false
			for _, id := range filter.Ids {
				if o.ID == id {
					found = true
				}
			}
			if !found {
				return false
			}
		}
		if len(filter.CustomerIds) > 0 {
			found := false
			for _, id := range filter.CustomerIds {
				if o.CustomerID == id {
					found = true
				}
			}
			if !found {
				return false
			}
		}

		return true
	}

	var result []order.Order
	for _, o := range r.u.store.orders {
		if matches(o) {
			o.OrderItems = nil
			result = append(result, o)
		}
	}

	return result, nil
}

type fakeOrderItemRepo struct{ u *fakeUOW }

func (r *fakeOrderItemRepo) BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	for i := range items {
		items[i].ID = r.u.store.nextItemID
		r.u.store.nextItemID++
	}
	r.u.stagedItems = append(r.u.stagedItems, items...)

	return items, nil
}

func (r *fakeOrderItemRepo) Query(ctx context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	r.u.enter()
	defer r.u.exit()

	var result []orderitem.OrderItem
	for _, item := range r.u.store.items {
		for _, orderID := range filter.OrderIds {
			if item.OrderID == orderID {
				result = append(result, item)
			}
		}
	}

	return result, nil
}

type fakeOutboxRepo struct{ u *fakeUOW }

func (r *fakeOutboxRepo) Insert(ctx context.Context, msg outbox.Message) error {
	r.u.stagedOutbox = append(r.u.stagedOutbox, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	return nil
}

func newTestService(store *fakeStore) *OrderService {
	return &OrderService{
		newUOWFunc: func() unitOfWork {
			return newFakeUOW(store)
		},
	}
}

func seedStore() *fakeStore {
	store := newFakeStore()
	store.customers[7] = customer.Customer{ID: 7, Name: "Alice Carter", Email: "alice@example.com"}
	store.products[1] = product.Product{ID: 1, Name: "Keyboard", PriceCents: 999, Stock: 10}
	store.products[2] = product.Product{ID: 2, Name: "Mouse", PriceCents: 2500, Stock: 2}

	return store
}

func TestCreateOrder_Success(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 3},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Len(t, created.OrderItems, 1)
	assert.Equal(t, int64(2997), created.Total())

	assert.Equal(t, 7, store.products[1].Stock)
	require.Len(t, store.orders, 1)
	require.Len(t, store.items, 1)
	assert.Equal(t, int64(999), store.items[0].PriceCents)
	assert.Equal(t, "Keyboard", store.items[0].ProductName)
	require.Len(t, store.outbox, 1)
	assert.Equal(t, "shop.order.created", store.outbox[0].QueueName)
}

func TestCreateOrder_InsufficientStock_NothingPersists(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 2, Quantity: 5},
	})

	require.Error(t, err)
	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Mouse", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 2, store.products[2].Stock)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
	assert.Empty(t, store.outbox)
}

func TestCreateOrder_PartialShortage_RollsBackEverything(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	// First item is fine, second exceeds stock: the whole order fails.
	_, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 5},
	})

	require.Error(t, err)
	assert.Equal(t, 10, store.products[1].Stock)
	assert.Equal(t, 2, store.products[2].Stock)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestCreateOrder_NonPositiveQuantitiesFiltered(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 0},
		{ProductID: 2, Quantity: -4},
		{ProductID: 2, Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, created.OrderItems, 1)
	assert.Equal(t, int64(2), created.OrderItems[0].ProductID)
	assert.Equal(t, 2, created.OrderItems[0].Quantity)
	assert.Equal(t, 10, store.products[1].Stock)
	assert.Equal(t, 0, store.products[2].Stock)
}

func TestCreateOrder_AllItemsInvalid(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 0},
		{ProductID: 2, Quantity: -1},
	})

	require.ErrorIs(t, err, apperrors.ErrNoValidItems)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_DuplicateProductsMerged(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 1},
	})

	require.NoError(t, err)
	require.Len(t, created.OrderItems, 1)
	assert.Equal(t, 3, created.OrderItems[0].Quantity)
	assert.Equal(t, 7, store.products[1].Stock)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 99, Quantity: 1},
	})

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Entity)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), 42, []ItemRequest{
		{ProductID: 1, Quantity: 1},
	})

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customer", notFound.Entity)
}

func TestCreateOrder_PriceSnapshotImmuneToPriceChange(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 3},
	})
	require.NoError(t, err)

	// Reprice the product after the order committed.
	p := store.products[1]
	p.PriceCents = 5000
	store.products[1] = p

	got, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2997), got.Total())
}

func TestCreateOrder_ConcurrentOrders_NeverOversell(t *testing.T) {
	store := seedStore()
	p := store.products[1]
	p.Stock = 5
	store.products[1] = p
	svc := newTestService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), 7, []ItemRequest{
				{ProductID: 1, Quantity: 3},
			})
		}(i)
	}
	wg.Wait()

	var successes, failures int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		failures++
		var stockErr *apperrors.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 2, store.products[1].Stock)
	assert.Len(t, store.orders, 1)
}

func TestGetOrder_ResolvesItemsAndCustomerName(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	created, err := svc.CreateOrder(context.Background(), 7, []ItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Carter", got.CustomerName)
	assert.Len(t, got.OrderItems, 2)
	assert.Equal(t, int64(999*2+2500), got.Total())
}

func TestGetOrder_NotFound(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	_, err := svc.GetOrder(context.Background(), 123)

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Entity)
}

func TestListOrders_Empty(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)

	orders, err := svc.ListOrders(context.Background(), order.QueryOrdersModel{})

	require.NoError(t, err)
	assert.Empty(t, orders)
}
