// internal/handlers/imports.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	redis_a "github.com/ammerola/shelfscan/internal/adapters/redis_adapter"
	"github.com/ammerola/shelfscan/internal/core/ports"
	"github.com/ammerola/shelfscan/internal/workers"
)

// CatalogFileStore keeps uploaded import files until the worker reads them
type CatalogFileStore interface {
	StoreCatalogFile(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// ImportEnqueuer hands an uploaded file to the import worker
type ImportEnqueuer interface {
	EnqueueCatalogImport(ctx context.Context, payload workers.CatalogImportPayload) error
}

// ImportHandler accepts catalog spreadsheets and delivery notes
type ImportHandler struct {
	files       CatalogFileStore
	queue       ImportEnqueuer
	cache       ports.CacheRepository
	logger      *slog.Logger
	maxFileSize int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(files CatalogFileStore, queue ImportEnqueuer, cache ports.CacheRepository, logger *slog.Logger, maxFileSize int64) *ImportHandler {
	return &ImportHandler{
		files:       files,
		queue:       queue,
		cache:       cache,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
	}
}

// Upload handles POST /api/v1/catalog/import. The multipart field "file"
// holds an .xlsx catalog or a .pdf delivery note; delivery notes also need
// the "shop_id" field.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		respondError(ctx, h.logger, w, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Sprintf("file exceeds %d bytes", h.maxFileSize))
		return
	}

	payload := workers.CatalogImportPayload{
		JobID:    uuid.NewString(),
		Filename: filepath.Base(header.Filename),
		Format:   importFormat(header.Filename),
	}
	if raw := r.FormValue("shop_id"); raw != "" {
		shopID, err := uuid.Parse(raw)
		if err != nil {
			respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid shop_id %q", raw))
			return
		}
		payload.ShopID = &shopID
	}

	// Validate before storing so rejected uploads leave nothing behind
	probe := payload
	probe.ObjectKey = "pending"
	if err := probe.Validate(); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", "Failed to read file")
		return
	}

	key, err := h.files.StoreCatalogFile(ctx, payload.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store import file",
			slog.String("filename", payload.Filename),
			slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusServiceUnavailable, "storage_unavailable", "Failed to store file")
		return
	}
	payload.ObjectKey = key

	job := &workers.ImportJob{
		ID:       payload.JobID,
		Filename: payload.Filename,
		Format:   payload.Format,
		Status:   workers.JobStatusQueued,
	}
	if h.cache != nil {
		if err := workers.SaveImportJob(ctx, h.cache, job); err != nil {
			h.logger.WarnContext(ctx, "failed to save import job status",
				slog.String("job_id", job.ID),
				slog.String("error", err.Error()))
		}
	}

	if err := h.queue.EnqueueCatalogImport(ctx, payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue import",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusServiceUnavailable, "queue_unavailable", "Failed to queue import")
		return
	}

	h.logger.InfoContext(ctx, "catalog import queued",
		slog.String("job_id", job.ID),
		slog.String("filename", payload.Filename),
		slog.String("format", payload.Format),
		slog.Int("size", len(data)))

	respondJSON(ctx, h.logger, w, http.StatusAccepted, job)
}

// Status handles GET /api/v1/catalog/import/{jobId}
func (h *ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	if _, err := uuid.Parse(jobID); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid job id %q", jobID))
		return
	}
	if h.cache == nil {
		respondError(ctx, h.logger, w, http.StatusNotFound, "not_found", "Import status is not tracked")
		return
	}

	var job workers.ImportJob
	if err := h.cache.Get(ctx, workers.ImportJobKey(jobID), &job); err != nil {
		if errors.Is(err, redis_a.ErrCacheMiss) {
			respondError(ctx, h.logger, w, http.StatusNotFound, "not_found", "Import job not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to read import job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusServiceUnavailable, "cache_unavailable", "Failed to read import status")
		return
	}

	respondJSON(ctx, h.logger, w, http.StatusOK, job)
}

func importFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return workers.FormatXLSX
	case ".pdf":
		return workers.FormatPDF
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}
}
