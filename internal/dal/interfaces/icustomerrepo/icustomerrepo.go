package icustomerrepo

import (
	"context"

	"github.com/avolkov/shop-svc/internal/service/models/customer"
)

// ICustomerRepository is an interface for the customer postgres repository.
type ICustomerRepository interface {
	Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error)
	Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error)
	Update(ctx context.Context, c customer.Customer) error
	Delete(ctx context.Context, id int64) error
}
