package customersvc

import (
	"context"
	"time"

	"github.com/avolkov/shop-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/customer"
)

// CustomerService is a service for managing customers.
type CustomerService struct {
	customerRepo icustomerrepo.ICustomerRepository
}

// option is a function that configures the CustomerService.
type option func(*CustomerService)

// MustNewCustomerService creates a new CustomerService.
func MustNewCustomerService(opts ...option) *CustomerService {
	s := &CustomerService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithCustomerRepository sets the customer repository for the CustomerService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomerRepository(repo icustomerrepo.ICustomerRepository) option {
	return func(s *CustomerService) {
		s.customerRepo = repo
	}
}

// ListCustomers retrieves customers based on filter.
func (s *CustomerService) ListCustomers(
	ctx context.Context,
	filter customer.QueryCustomersModel,
) ([]customer.Customer, error) {
	customers, err := s.customerRepo.Query(ctx, &filter)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []customer.Customer{}
	}

	return customers, nil
}

// CreateCustomer creates a new customer.
func (s *CustomerService) CreateCustomer(
	ctx context.Context,
	c customer.Customer,
) (*customer.Customer, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	return s.customerRepo.Insert(ctx, c)
}

// GetCustomer retrieves a single customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	customers, err := s.customerRepo.Query(ctx, &customer.QueryCustomersModel{Ids: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, &apperrors.NotFoundError{Entity: "customer", ID: id}
	}

	return &customers[0], nil
}

// CustomerUpdate carries the fields of a partial customer update. Nil
// fields are left unchanged.
type CustomerUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// UpdateCustomer applies a partial update to an existing customer.
func (s *CustomerService) UpdateCustomer(
	ctx context.Context,
	id int64,
	update CustomerUpdate,
) (*customer.Customer, error) {
	existing, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Email != nil {
		existing.Email = *update.Email
	}
	if update.Phone != nil {
		existing.Phone = *update.Phone
	}
	existing.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteCustomer removes a customer by id.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}

	return s.customerRepo.Delete(ctx, id)
}
