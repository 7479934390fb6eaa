// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/shelfscan/internal/catalog"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

const importJobTTL = 24 * time.Hour

// Import job states
const (
	JobStatusQueued    = "queued"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// ObjectSource reads and removes uploaded files
type ObjectSource interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// ImportJob is the status record kept for an import while it is in flight
// and for a day after it finishes.
type ImportJob struct {
	ID        string               `json:"id"`
	Filename  string               `json:"filename"`
	Format    string               `json:"format"`
	Status    string               `json:"status"`
	Result    *domain.ImportResult `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ImportJobKey is the cache key of an import job's status
func ImportJobKey(jobID string) string {
	return "import_job:" + jobID
}

// SaveImportJob stores the job status. Errors are returned so callers can
// decide whether a missing status record matters.
func SaveImportJob(ctx context.Context, cache ports.CacheRepository, job *ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	return cache.SetWithTTL(ctx, ImportJobKey(job.ID), job, importJobTTL)
}

// ImportProcessor applies uploaded catalog spreadsheets and delivery notes
type ImportProcessor struct {
	catalog ports.CatalogService
	objects ObjectSource
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewImportProcessor creates a new import processor. cache may be nil, in
// which case no job status is kept.
func NewImportProcessor(catalog ports.CatalogService, objects ObjectSource, cache ports.CacheRepository, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		catalog: catalog,
		objects: objects,
		cache:   cache,
		logger:  logger.With(slog.String("processor", "import")),
	}
}

// ProcessCatalogImport fetches the uploaded file, parses it and applies it
func (p *ImportProcessor) ProcessCatalogImport(ctx context.Context, t *asynq.Task) error {
	var payload CatalogImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("invalid import payload: %v: %w", err, asynq.SkipRetry)
	}

	log := p.logger.With(
		slog.String("job_id", payload.JobID),
		slog.String("filename", payload.Filename),
		slog.String("format", payload.Format))
	log.InfoContext(ctx, "processing catalog import")
	start := time.Now()

	data, err := p.objects.Fetch(ctx, payload.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to fetch import file: %w", err)
	}

	result, err := p.apply(ctx, &payload, data)
	if err != nil {
		p.finish(ctx, &payload, nil, err)
		return err
	}

	p.finish(ctx, &payload, result, nil)
	if err := p.objects.Remove(ctx, payload.ObjectKey); err != nil {
		log.WarnContext(ctx, "failed to remove processed import file",
			slog.String("key", payload.ObjectKey),
			slog.String("error", err.Error()))
	}

	log.InfoContext(ctx, "catalog import completed",
		slog.Int("rows", result.RowsProcessed),
		slog.Int("batches_created", result.BatchesCreated),
		slog.Int("problems", len(result.Errors)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (p *ImportProcessor) apply(ctx context.Context, payload *CatalogImportPayload, data []byte) (*domain.ImportResult, error) {
	switch payload.Format {
	case FormatXLSX:
		rows, problems, err := catalog.ParseImportWorkbook(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workbook: %v: %w", err, asynq.SkipRetry)
		}
		result, err := p.catalog.Import(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to import catalog: %w", err)
		}
		result.Errors = append(problems, result.Errors...)
		return result, nil

	case FormatPDF:
		lines, err := catalog.ParseDeliveryNote(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse delivery note: %v: %w", err, asynq.SkipRetry)
		}
		result, err := p.catalog.Restock(ctx, *payload.ShopID, lines)
		if err != nil {
			return nil, fmt.Errorf("failed to restock: %w", err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("unsupported import format %q: %w", payload.Format, asynq.SkipRetry)
}

func (p *ImportProcessor) finish(ctx context.Context, payload *CatalogImportPayload, result *domain.ImportResult, err error) {
	if p.cache == nil || payload.JobID == "" {
		return
	}

	job := &ImportJob{
		ID:       payload.JobID,
		Filename: payload.Filename,
		Format:   payload.Format,
		Status:   JobStatusCompleted,
		Result:   result,
	}
	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
	}

	if saveErr := SaveImportJob(ctx, p.cache, job); saveErr != nil {
		p.logger.WarnContext(ctx, "failed to save import job status",
			slog.String("job_id", payload.JobID),
			slog.String("error", saveErr.Error()))
	}
}
