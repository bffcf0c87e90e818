package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/avolkov/shop-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/avolkov/shop-svc/internal/dal/rabbitmq"
	"github.com/avolkov/shop-svc/internal/service/models/outbox"
)

const publishConcurrency = 4

// Worker drains the outbox table into RabbitMQ. Events land in the
// outbox inside the order transaction; the worker gives them
// at-least-once delivery with exponential backoff on publish failure.
type Worker struct {
	outboxRepo   ioutboxrepo.IOutboxRepository
	rabbitClient *rabbitmq.Client
	pollInterval time.Duration
	batchSize    int
	stopCh       chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	rabbitClient *rabbitmq.Client,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	return &Worker{
		outboxRepo:   outboxRepo,
		rabbitClient: rabbitClient,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
	}
}

// Start begins draining the outbox. Blocks until ctx is cancelled or
// Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) drain(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Publishing outbox messages", "count", len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(publishConcurrency)

	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			if err := w.publish(msg); err != nil {
				w.scheduleRetry(gctx, msg, err)

				return nil
			}

			if err := w.outboxRepo.Delete(gctx, msg.ID); err != nil {
				return fmt.Errorf("failed to delete delivered outbox message %d: %w", msg.ID, err)
			}

			slog.Info("Outbox message delivered", "outbox_id", msg.ID, "event_id", msg.EventID)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Outbox drain finished with errors", "error", err)
	}
}

func (w *Worker) publish(msg outbox.Message) error {
	return w.rabbitClient.Channel().Publish(
		msg.ExchangeName,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			MessageId:   msg.EventID,
			ContentType: msg.ContentType,
			Body:        msg.Payload,
		},
	)
}

// scheduleRetry bumps the retry count and pushes next_retry_at out with
// exponential backoff: 60s, 120s, 240s and so on.
func (w *Worker) scheduleRetry(ctx context.Context, msg outbox.Message, publishErr error) {
	retryCount := msg.RetryCount + 1
	backoff := time.Duration(math.Pow(2, float64(retryCount))*30) * time.Second
	nextRetryAt := time.Now().Add(backoff)

	slog.Warn("Failed to publish outbox message, will retry",
		"outbox_id", msg.ID,
		"retry_count", retryCount,
		"next_retry", nextRetryAt,
		"error", publishErr,
	)

	if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, retryCount, publishErr.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
	}
}
