package listorders

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/spf13/viper"

	"github.com/avolkov/shop-svc/internal/service/models/money"
	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/transport/http/respond"
)

type service interface {
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type listOrdersRequest struct {
	CustomerID int64 `schema:"customer_id,omitempty"`
	Page       int   `schema:"page,omitempty"`
	PageSize   int   `schema:"page_size,omitempty"`
}

func (q *listOrdersRequest) toFilter() order.QueryOrdersModel {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = viper.GetInt("server.http.pagination.page_size")
		if pageSize <= 0 {
			pageSize = 10
		}
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	filter := order.QueryOrdersModel{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if q.CustomerID > 0 {
		filter.CustomerIds = []int64{q.CustomerID}
	}

	return filter
}

type orderSummary struct {
	ID           int64     `json:"id"`
	Number       string    `json:"number"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	OrderDate    time.Time `json:"order_date"`
	Total        float64   `json:"total"`
}

type listOrdersResponse struct {
	Orders []orderSummary `json:"orders"`
}

// ListOrders handles the list orders request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &listOrdersRequest{}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error decoding list orders query", "error", err)

		return
	}

	orders, err := service.ListOrders(r.Context(), query.toFilter())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing orders", "error", err)

		return
	}

	summaries := make([]orderSummary, len(orders))
	for i, o := range orders {
		summaries[i] = orderSummary{
			ID:           o.ID,
			Number:       o.Number,
			CustomerID:   o.CustomerID,
			CustomerName: o.CustomerName,
			Status:       string(o.Status),
			OrderDate:    o.OrderDate,
			Total:        money.DecimalFromCents(o.Total()),
		}
	}

	respond.JSON(w, http.StatusOK, listOrdersResponse{Orders: summaries})
}
