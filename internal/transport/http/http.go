package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/avolkov/shop-svc/internal/service/models/customer"
	"github.com/avolkov/shop-svc/internal/service/models/order"
	"github.com/avolkov/shop-svc/internal/service/models/product"
	"github.com/avolkov/shop-svc/internal/service/services/customersvc"
	"github.com/avolkov/shop-svc/internal/service/services/ordersvc"
	createorder "github.com/avolkov/shop-svc/internal/transport/http/create_order"
	"github.com/avolkov/shop-svc/internal/transport/http/customers"
	getorder "github.com/avolkov/shop-svc/internal/transport/http/get_order"
	listorders "github.com/avolkov/shop-svc/internal/transport/http/list_orders"
	"github.com/avolkov/shop-svc/internal/transport/http/products"
	"github.com/avolkov/shop-svc/pkg/http/middleware/trace"
	"github.com/avolkov/shop-svc/pkg/logger"
)

type orderService interface {
	CreateOrder(ctx context.Context, customerID int64, items []ordersvc.ItemRequest) (*order.Order, error)
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

type customerService interface {
	ListCustomers(ctx context.Context, filter customer.QueryCustomersModel) ([]customer.Customer, error)
	CreateCustomer(ctx context.Context, c customer.Customer) (*customer.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, update customersvc.CustomerUpdate) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type productService interface {
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	ListProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
}

type HTTPTransport struct {
	server      *http.Server
	router      *chi.Mux
	orderSvc    orderService
	customerSvc customerService
	productSvc  productService
}

func NewHTTPTransport(
	orderSvc orderService,
	customerSvc customerService,
	productSvc productService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:      server,
		router:      router,
		orderSvc:    orderSvc,
		customerSvc: customerSvc,
		productSvc:  productSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers.List(w, r, h.customerSvc)
}

func (h *HTTPTransport) createCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Create(w, r, h.customerSvc)
}

func (h *HTTPTransport) getCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Get(w, r, h.customerSvc)
}

func (h *HTTPTransport) updateCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Update(w, r, h.customerSvc)
}

func (h *HTTPTransport) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Delete(w, r, h.customerSvc)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.Create(w, r, h.productSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.List(w, r, h.productSvc)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	products.Get(w, r, h.productSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
