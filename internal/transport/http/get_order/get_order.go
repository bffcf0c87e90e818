package getorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/money"
	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/transport/http/respond"
)

type service interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

type orderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type getOrderResponse struct {
	ID           int64               `json:"id"`
	Number       string              `json:"number"`
	CustomerID   int64               `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	OrderDate    time.Time           `json:"order_date"`
	Items        []orderItemResponse `json:"items"`
	Total        float64             `json:"total"`
}

// GetOrder handles the get order request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, &apperrors.NotFoundError{Entity: "order"})

		return
	}

	o, err := service.GetOrder(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "order_id", id, "error", err)

		return
	}

	items := make([]orderItemResponse, len(o.OrderItems))
	for i, item := range o.OrderItems {
		items[i] = orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       money.DecimalFromCents(item.PriceCents),
		}
	}

	respond.JSON(w, http.StatusOK, getOrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		OrderDate:    o.OrderDate,
		Items:        items,
		Total:        money.DecimalFromCents(o.Total()),
	})
}
