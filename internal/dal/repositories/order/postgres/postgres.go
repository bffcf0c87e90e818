package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/avolkov/shop-svc/internal/dal/postgres"
	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/service/models/orderitem"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id         int64     `db:"id"`
	Number     string    `db:"number"`
	CustomerId int64     `db:"customer_id"`
	Status     string    `db:"status"`
	OrderDate  time.Time `db:"order_date"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	return &order.Order{
		ID:         o.Id,
		Number:     o.Number,
		CustomerID: o.CustomerId,
		Status:     order.Status(o.Status),
		OrderDate:  o.OrderDate,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		OrderItems: []orderitem.OrderItem{}, // populated separately
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.Conn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts an order and returns it with the generated id.
func (r *PostgresOrderRepository) Insert(
	ctx context.Context,
	o order.Order,
) (*order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns("number", "customer_id", "status", "order_date", "created_at", "updated_at").
		Values(o.Number, o.CustomerID, string(o.Status), o.OrderDate, o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING id, number, customer_id, status, order_date, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.Number,
		&dal.CustomerId,
		&dal.Status,
		&dal.OrderDate,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	model := dal.ToModel()
	model.OrderItems = o.OrderItems

	return model, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select("id", "number", "customer_id", "status", "order_date", "created_at", "updated_at").
		From("orders").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.Number,
			&dal.CustomerId,
			&dal.Status,
			&dal.OrderDate,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
