package iproductrepo

import (
	"context"

	"github.com/avolkov/shop-svc/internal/service/models/product"
)

// IProductRepository is an interface for the product postgres repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (*product.Product, error)
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)

	// GetForUpdate loads one product and takes a row lock on it, so the
	// stock check and the later decrement act as one atomic unit. Must
	// be called inside a transaction.
	GetForUpdate(ctx context.Context, id int64) (*product.Product, error)

	// DecrementStock subtracts amount from the product's stock. It must
	// fail, not clamp, if the resulting stock would go negative.
	DecrementStock(ctx context.Context, id int64, amount int) error
}
