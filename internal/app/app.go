package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkov/shop-svc/internal/dal/postgres"
	"github.com/avolkov/shop-svc/internal/dal/rabbitmq"
	"github.com/avolkov/shop-svc/internal/dal/uow"
	"github.com/avolkov/shop-svc/internal/otel"
	"github.com/avolkov/shop-svc/internal/service/services/customersvc"
	"github.com/avolkov/shop-svc/internal/service/services/ordersvc"
	"github.com/avolkov/shop-svc/internal/service/services/productsvc"
	httptransport "github.com/avolkov/shop-svc/internal/transport/http"
	outboxworker "github.com/avolkov/shop-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	otelController *otel.OtelController
	workerCancel   context.CancelFunc
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	repos := uow.NewUnitOfWork(postgresClient)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)
	customerSvc := customersvc.MustNewCustomerService(
		customersvc.WithCustomerRepository(repos.CustomerRepository()),
	)
	productSvc := productsvc.MustNewProductService(
		productsvc.WithProductRepository(repos.ProductRepository()),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, customerSvc, productSvc)
	transport.RegisterRoutes()

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    "shop.order.created",
		Durable: true,
	}); err != nil {
		panic(err)
	}

	worker := outboxworker.NewWorker(repos.OutboxRepository(), rabbitClient)

	return &App{
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		outboxWorker:   worker,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.workerCancel()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
