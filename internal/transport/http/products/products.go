package products

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/money"
	"github.com/avolkov/shop-svc/internal/service/models/product"
	"github.com/avolkov/shop-svc/internal/transport/http/respond"
	"github.com/avolkov/shop-svc/internal/transport/http/validate"
)

// service is an interface for the service layer.
type service interface {
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	ListProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
}

type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func toResponse(p *product.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: money.DecimalFromCents(p.PriceCents),
		Stock: p.Stock,
	}
}

// createProductRequest represents a create product request. Price is
// decimal units on the wire, cents inside the service.
type createProductRequest struct {
	Name  string  `json:"name"  validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
	Stock int     `json:"stock" validate:"gte=0"`
}

// Create handles the create product request.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	if err := validate.Struct(&req); err != nil {
		respond.BadRequest(w, err.Error())
		slog.Error("Error validating request body for create product", "error", err)

		return
	}

	created, err := service.CreateProduct(r.Context(), product.Product{
		Name:       req.Name,
		PriceCents: money.CentsFromDecimal(req.Price),
		Stock:      req.Stock,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating product", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": toResponse(created),
	})
}

// List handles the list products request.
func List(w http.ResponseWriter, r *http.Request, service service) {
	products, err := service.ListProducts(r.Context(), product.QueryProductsModel{})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing products", "error", err)

		return
	}

	list := make([]productResponse, len(products))
	for i := range products {
		list[i] = toResponse(&products[i])
	}

	respond.JSON(w, http.StatusOK, map[string]any{"products": list})
}

// Get handles the get product request.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, &apperrors.NotFoundError{Entity: "product"})

		return
	}

	p, err := service.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting product", "product_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}
