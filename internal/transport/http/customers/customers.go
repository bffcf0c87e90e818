package customers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/customer"
	"github.com/avolkov/shop-svc/internal/service/services/customersvc"
	"github.com/avolkov/shop-svc/internal/transport/http/respond"
	"github.com/avolkov/shop-svc/internal/transport/http/validate"
)

// service is an interface for the service layer.
type service interface {
	ListCustomers(ctx context.Context, filter customer.QueryCustomersModel) ([]customer.Customer, error)
	CreateCustomer(ctx context.Context, c customer.Customer) (*customer.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, update customersvc.CustomerUpdate) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type customerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// createCustomerRequest represents a create customer request.
type createCustomerRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

// List handles the list customers request.
func List(w http.ResponseWriter, r *http.Request, service service) {
	customers, err := service.ListCustomers(r.Context(), customer.QueryCustomersModel{})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing customers", "error", err)

		return
	}

	list := make([]customerResponse, len(customers))
	for i := range customers {
		list[i] = toResponse(&customers[i])
	}

	respond.JSON(w, http.StatusOK, map[string]any{"customers": list})
}

// Create handles the create customer request.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createCustomerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error decoding request body for create customer", "error", err)

		return
	}

	if err := validate.Struct(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error validating request body for create customer", "error", err)

		return
	}

	created, err := service.CreateCustomer(r.Context(), customer.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating customer", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":  "Customer created successfully",
		"customer": toResponse(created),
	})
}

// Get handles the get customer request.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, &apperrors.NotFoundError{Entity: "customer"})

		return
	}

	c, err := service.GetCustomer(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting customer", "customer_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

// updateCustomerRequest represents a partial customer update. Absent
// fields are left unchanged.
type updateCustomerRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,phone"`
}

// Update handles the update customer request.
func Update(w http.ResponseWriter, r *http.Request, service service) {
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, &apperrors.NotFoundError{Entity: "customer"})

		return
	}

	req := updateCustomerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error decoding request body for update customer", "error", err)

		return
	}

	if err := validate.Struct(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error validating request body for update customer", "error", err)

		return
	}

	_, err = service.UpdateCustomer(r.Context(), id, customersvc.CustomerUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating customer", "customer_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"message": "Customer updated successfully"})
}

// Delete handles the delete customer request.
func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, err := idParam(r)
	if err != nil {
		respond.Error(w, &apperrors.NotFoundError{Entity: "customer"})

		return
	}

	if err := service.DeleteCustomer(r.Context(), id); err != nil {
		respond.Error(w, err)
		slog.Error("Error deleting customer", "customer_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"message": "Customer deleted successfully"})
}
