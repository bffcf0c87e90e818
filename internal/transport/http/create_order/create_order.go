package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/service/services/ordersvc"
	"github.com/avolkov/shop-svc/internal/transport/http/respond"
	"github.com/avolkov/shop-svc/internal/transport/http/validate"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, customerID int64, items []ordersvc.ItemRequest) (*order.Order, error)
}

var errCustomerIDNotInteger = errors.New("customer_id must be an integer")

// customerID accepts both a JSON number and a numeric string, so
// clients sending "7" instead of 7 still work. Anything non-numeric
// fails with a distinct message.
type customerID int64

func (c *customerID) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseInt(strings.Trim(string(data), `"`), 10, 64)
	if err != nil {
		return errCustomerIDNotInteger
	}
	*c = customerID(v)

	return nil
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	CustomerID customerID                 `json:"customer_id" validate:"gt=0"`
	Items      []itemInCreateOrderRequest `json:"items"       validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validate.Struct(r)
}

type createOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	items := make([]ordersvc.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = ordersvc.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	created, err := service.CreateOrder(r.Context(), int64(req.CustomerID), items)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, createOrderResponse{
		Message: "Order created successfully",
		OrderID: created.ID,
	})
}
