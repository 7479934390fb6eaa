// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

const (
	TypeSaleRecorded          = "sale:recorded"
	TypeListingRefresh        = "listing:refresh"
	TypeCatalogImport         = "catalog:import"
	TypeCleanupExpiredBatches = "cleanup:expired_batches"
)

// Queue names
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Import formats
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// SaleRecordedPayload carries a completed sale
type SaleRecordedPayload struct {
	Event domain.SaleEvent `json:"event"`
}

// ListingRefreshPayload names the shop whose listing changed. A nil
// ShopID refreshes every listing.
type ListingRefreshPayload struct {
	ShopID *uuid.UUID `json:"shop_id,omitempty"`
}

// CatalogImportPayload points at an uploaded catalog file
type CatalogImportPayload struct {
	JobID     string     `json:"job_id"`
	ObjectKey string     `json:"object_key"`
	Filename  string     `json:"filename"`
	Format    string     `json:"format"`
	ShopID    *uuid.UUID `json:"shop_id,omitempty"` // required for delivery notes
}

// Validate checks the payload before it is enqueued or processed
func (p *CatalogImportPayload) Validate() error {
	if p.ObjectKey == "" {
		return fmt.Errorf("object key is required")
	}
	switch p.Format {
	case FormatXLSX:
	case FormatPDF:
		if p.ShopID == nil {
			return fmt.Errorf("shop id is required for delivery notes")
		}
	default:
		return fmt.Errorf("unsupported import format %q", p.Format)
	}
	return nil
}

// NewSaleRecordedTask builds the task for a sale event. The event id is the
// task id so a replayed publish is rejected by the queue.
func NewSaleRecordedTask(event domain.SaleEvent) (*asynq.Task, error) {
	b, err := json.Marshal(SaleRecordedPayload{Event: event})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sale payload: %w", err)
	}
	return asynq.NewTask(TypeSaleRecorded, b,
		asynq.TaskID(event.ID.String()),
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(10),
		asynq.Retention(24*time.Hour)), nil
}

// NewListingRefreshTask builds a listing invalidation task
func NewListingRefreshTask(shopID *uuid.UUID) (*asynq.Task, error) {
	b, err := json.Marshal(ListingRefreshPayload{ShopID: shopID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh payload: %w", err)
	}
	return asynq.NewTask(TypeListingRefresh, b,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second)), nil
}

// NewCatalogImportTask builds an import task
func NewCatalogImportTask(payload CatalogImportPayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeCatalogImport, b,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour)), nil
}

// NewCleanupExpiredBatchesTask builds the periodic cleanup task
func NewCleanupExpiredBatchesTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupExpiredBatches, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1),
		asynq.Unique(30*time.Minute))
}
