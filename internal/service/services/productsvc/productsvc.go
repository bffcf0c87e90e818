package productsvc

import (
	"context"
	"time"

	"github.com/avolkov/shop-svc/internal/dal/interfaces/iproductrepo"
	"github.com/avolkov/shop-svc/internal/service/apperrors"
	"github.com/avolkov/shop-svc/internal/service/models/product"
)

// ProductService is a service for managing products. Stock mutation is
// not exposed here: the only decrement path is the order coordinator.
type ProductService struct {
	productRepo iproductrepo.IProductRepository
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductRepository sets the product repository for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *ProductService) {
		s.productRepo = repo
	}
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(
	ctx context.Context,
	p product.Product,
) (*product.Product, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.productRepo.Insert(ctx, p)
}

// ListProducts retrieves products based on filter.
func (s *ProductService) ListProducts(
	ctx context.Context,
	filter product.QueryProductsModel,
) ([]product.Product, error) {
	products, err := s.productRepo.Query(ctx, &filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}

	return products, nil
}

// GetProduct retrieves a single product by id.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	products, err := s.productRepo.Query(ctx, &product.QueryProductsModel{Ids: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, &apperrors.NotFoundError{Entity: "product", ID: id}
	}

	return &products[0], nil
}
