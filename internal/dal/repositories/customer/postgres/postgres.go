package postgresrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/avolkov/shop-svc/internal/dal/postgres"
	"github.com/avolkov/shop-svc/internal/service/models/customer"
)

// CustomerDal represents customer data access layer model.
type CustomerDal struct {
	Id        int64          `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Phone     sql.NullString `db:"phone"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// ToModel converts CustomerDal to service layer Customer model.
func (c *CustomerDal) ToModel() *customer.Customer {
	return &customer.Customer{
		ID:        c.Id,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone.String,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// PostgresCustomerRepository represents a Postgres customer repository.
type PostgresCustomerRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresCustomerRepository creates a new Postgres customer repository.
func NewPostgresCustomerRepository(conn postgres.Conn) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func nullablePhone(phone string) sql.NullString {
	return sql.NullString{String: phone, Valid: phone != ""}
}

// Insert inserts a customer and returns it with the generated id.
func (r *PostgresCustomerRepository) Insert(
	ctx context.Context,
	c customer.Customer,
) (*customer.Customer, error) {
	sqlStr, args, err := r.sb.
		Insert("customers").
		Columns("name", "email", "phone", "created_at", "updated_at").
		Values(c.Name, c.Email, nullablePhone(c.Phone), c.CreatedAt, c.UpdatedAt).
		Suffix("RETURNING id, name, email, phone, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal CustomerDal
	err = r.conn.QueryRow(ctx, sqlStr, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.Email,
		&dal.Phone,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves customers based on filter criteria.
func (r *PostgresCustomerRepository) Query(
	ctx context.Context,
	filter *customer.QueryCustomersModel,
) ([]customer.Customer, error) {
	query := r.sb.
		Select("id", "name", "email", "phone", "created_at", "updated_at").
		From("customers").
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

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var result []customer.Customer
	for rows.Next() {
		var dal CustomerDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.Email,
			&dal.Phone,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update updates customer fields by id.
func (r *PostgresCustomerRepository) Update(ctx context.Context, c customer.Customer) error {
	sqlStr, args, err := r.sb.
		Update("customers").
		Set("name", c.Name).
		Set("email", c.Email).
		Set("phone", nullablePhone(c.Phone)).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	_, err = r.conn.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// Delete removes a customer by id.
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := r.sb.
		Delete("customers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	_, err = r.conn.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}
