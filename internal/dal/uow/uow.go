package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/avolkov/shop-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iorderrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/avolkov/shop-svc/internal/dal/interfaces/iproductrepo"
	"github.com/avolkov/shop-svc/internal/dal/postgres"
	customerrepo "github.com/avolkov/shop-svc/internal/dal/repositories/customer/postgres"
	orderrepo "github.com/avolkov/shop-svc/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/avolkov/shop-svc/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/avolkov/shop-svc/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/avolkov/shop-svc/internal/dal/repositories/product/postgres"
)

// UnitOfWork scopes repositories to a single database handle. Before
// Begin the repositories run against the pool; after Begin they all
// share one transaction until Commit or Rollback.
type UnitOfWork struct {
	pool *postgres.Client
	tx   pgx.Tx

	customerRepo  icustomerrepo.ICustomerRepository
	productRepo   iproductrepo.IProductRepository
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work backed by the connection pool.
func NewUnitOfWork(pool *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{pool: pool}
	u.bind(pool.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.Conn) {
	u.customerRepo = customerrepo.NewPostgresCustomerRepository(conn)
	u.productRepo = productrepo.NewPostgresProductRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.outboxRepo = outboxrepo.NewPostgresOutboxRepository(conn)
}

// Begin starts a transaction and rebinds all repositories to it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

// Commit commits the transaction if one is open.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

// Rollback rolls back the transaction if one is open. Safe to defer:
// after a successful commit it is a no-op error swallowed by pgx.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}

func (u *UnitOfWork) CustomerRepository() icustomerrepo.ICustomerRepository {
	return u.customerRepo
}

func (u *UnitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *UnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}
