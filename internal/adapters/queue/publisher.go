// internal/adapters/queue/publisher.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
	"github.com/ammerola/shelfscan/internal/workers"
)

// Enqueuer is the subset of *asynq.Client the publisher needs
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher hands sale events and refresh requests to the worker queues
type Publisher struct {
	client Enqueuer
	logger *slog.Logger
}

// Statically assert that *Publisher implements the SaleEventPublisher interface.
var _ ports.SaleEventPublisher = (*Publisher)(nil)

// NewPublisher creates a new queue publisher
func NewPublisher(client Enqueuer, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger.With(slog.String("component", "queue_publisher")),
	}
}

// PublishSale enqueues a sale event. A task id conflict means the event is
// already queued and is not an error.
func (p *Publisher) PublishSale(ctx context.Context, event domain.SaleEvent) error {
	task, err := workers.NewSaleRecordedTask(event)
	if err != nil {
		return err
	}
	return p.enqueue(ctx, task, slog.String("event_id", event.ID.String()))
}

// PublishListingRefresh enqueues a listing invalidation for shopID
func (p *Publisher) PublishListingRefresh(ctx context.Context, shopID *uuid.UUID) error {
	task, err := workers.NewListingRefreshTask(shopID)
	if err != nil {
		return err
	}
	return p.enqueue(ctx, task)
}

// EnqueueCatalogImport enqueues an uploaded catalog file for processing
func (p *Publisher) EnqueueCatalogImport(ctx context.Context, payload workers.CatalogImportPayload) error {
	task, err := workers.NewCatalogImportTask(payload)
	if err != nil {
		return err
	}
	return p.enqueue(ctx, task, slog.String("job_id", payload.JobID))
}

func (p *Publisher) enqueue(ctx context.Context, task *asynq.Task, attrs ...any) error {
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			p.logger.DebugContext(ctx, "task already queued",
				append([]any{slog.String("type", task.Type())}, attrs...)...)
			return nil
		}
		return fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}

	p.logger.DebugContext(ctx, "task enqueued",
		append([]any{
			slog.String("type", task.Type()),
			slog.String("task_id", info.ID),
			slog.String("queue", info.Queue),
		}, attrs...)...)
	return nil
}
