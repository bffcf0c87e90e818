package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/shop-svc/internal/dal/postgres"
	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/product"
)

// ProductDal represents product data access layer model.
type ProductDal struct {
	Id         int64     `db:"id"`
	Name       string    `db:"name"`
	PriceCents int64     `db:"price_cents"`
	Stock      int       `db:"stock"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToModel converts ProductDal to service layer Product model.
func (p *ProductDal) ToModel() *product.Product {
	return &product.Product{
		ID:         p.Id,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.Conn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts a product and returns it with the generated id.
func (r *PostgresProductRepository) Insert(
	ctx context.Context,
	p product.Product,
) (*product.Product, error) {
	sql, args, err := r.sb.
		Insert("products").
		Columns("name", "price_cents", "stock", "created_at", "updated_at").
		Values(p.Name, p.PriceCents, p.Stock, p.CreatedAt, p.UpdatedAt).
		Suffix("RETURNING id, name, price_cents, stock, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal ProductDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.PriceCents,
		&dal.Stock,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves products based on filter criteria.
func (r *PostgresProductRepository) Query(
	ctx context.Context,
	filter *product.QueryProductsModel,
) ([]product.Product, error) {
	query := r.sb.
		Select("id", "name", "price_cents", "stock", "created_at", "updated_at").
		From("products").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
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
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var dal ProductDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.PriceCents,
			&dal.Stock,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetForUpdate loads a product and takes a row lock on it. Concurrent
// orders touching the same product serialize here until the surrounding
// transaction commits or rolls back.
func (r *PostgresProductRepository) GetForUpdate(
	ctx context.Context,
	id int64,
) (*product.Product, error) {
	sql := `
		SELECT id, name, price_cents, stock, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var dal ProductDal
	err := r.conn.QueryRow(ctx, sql, id).Scan(
		&dal.Id,
		&dal.Name,
		&dal.PriceCents,
		&dal.Stock,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.NotFoundError{Entity: "product", ID: id}
		}

		return nil, fmt.Errorf("failed to lock product %d: %w", id, err)
	}

	return dal.ToModel(), nil
}

// DecrementStock subtracts amount from the product's stock. The guard
// in the WHERE clause keeps stock from ever going negative: if another
// transaction drained the stock first, no row matches and the caller
// gets a conflict instead of a silent clamp.
func (r *PostgresProductRepository) DecrementStock(
	ctx context.Context,
	id int64,
	amount int,
) error {
	sql := `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := r.conn.Exec(ctx, sql, id, amount)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", id, err)
	}

	if tag.RowsAffected() != 1 {
		return &apperrors.ConflictError{ProductID: id}
	}

	return nil
}
