package customersvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/customer"
)

type fakeCustomerRepo struct {
	customers map[int64]customer.Customer
	nextID    int64
	deleted   []int64
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers: make(map[int64]customer.Customer),
		nextID:    1,
	}
}

func (r *fakeCustomerRepo) Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	c.ID = r.nextID
	r.nextID++
	r.customers[c.ID] = c

	return &c, nil
}

func (r *fakeCustomerRepo) Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error) {
	var result []customer.Customer
	if len(filter.Ids) > 0 {
		for _, id := range filter.Ids {
			if c, ok := r.customers[id]; ok {
				result = append(result, c)
			}
		}

		return result, nil
	}
	for _, c := range r.customers {
		result = append(result, c)
	}

	return result, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c customer.Customer) error {
	r.customers[c.ID] = c

	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id int64) error {
	delete(r.customers, id)
	r.deleted = append(r.deleted, id)

	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := MustNewCustomerService(WithCustomerRepository(repo))

	created, err := svc.CreateCustomer(context.Background(), customer.Customer{
		Name:  "Alice Carter",
		Email: "alice@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetCustomer(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Carter", got.Name)
}

func TestGetCustomer_NotFound(t *testing.T) {
	svc := MustNewCustomerService(WithCustomerRepository(newFakeCustomerRepo()))

	_, err := svc.GetCustomer(context.Background(), 99)

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customer", notFound.Entity)
}

func TestUpdateCustomer_PartialUpdate(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := MustNewCustomerService(WithCustomerRepository(repo))

	created, err := svc.CreateCustomer(context.Background(), customer.Customer{
		Name:  "Alice Carter",
		Email: "alice@example.com",
		Phone: "+15551234567",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(context.Background(), created.ID, CustomerUpdate{
		Email: strPtr("carter@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Carter", updated.Name)
	assert.Equal(t, "carter@example.com", updated.Email)
	assert.Equal(t, "+15551234567", updated.Phone)
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	svc := MustNewCustomerService(WithCustomerRepository(newFakeCustomerRepo()))

	_, err := svc.UpdateCustomer(context.Background(), 5, CustomerUpdate{Name: strPtr("Bob")})

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := MustNewCustomerService(WithCustomerRepository(repo))

	created, err := svc.CreateCustomer(context.Background(), customer.Customer{
		Name:  "Alice Carter",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(context.Background(), created.ID))
	assert.Equal(t, []int64{created.ID}, repo.deleted)

	err = svc.DeleteCustomer(context.Background(), created.ID)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListCustomers_EmptyIsNotNil(t *testing.T) {
	svc := MustNewCustomerService(WithCustomerRepository(newFakeCustomerRepo()))

	customers, err := svc.ListCustomers(context.Background(), customer.QueryCustomersModel{})

	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}
