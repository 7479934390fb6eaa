// internal/handlers/sales.go
package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

const defaultMaxImageBytes = 10 << 20

// SalesHandler exposes the three ways a till can sell one unit
type SalesHandler struct {
	sales         ports.SaleService
	logger        *slog.Logger
	maxImageBytes int64
}

// NewSalesHandler creates a new sales handler. maxImageBytes bounds scan
// uploads; zero uses 10MB.
func NewSalesHandler(sales ports.SaleService, logger *slog.Logger, maxImageBytes int64) *SalesHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	return &SalesHandler{
		sales:         sales,
		logger:        logger.With(slog.String("handler", "sales")),
		maxImageBytes: maxImageBytes,
	}
}

// SellByCodeRequest is the body of POST .../sales/code
type SellByCodeRequest struct {
	Code string `json:"code"`
}

// SellByNameRequest is the body of POST .../sales/name
type SellByNameRequest struct {
	Name  string  `json:"name"`
	Brand *string `json:"brand,omitempty"`
}

// SellByCode handles POST /api/v1/shops/{shopId}/sales/code
func (h *SalesHandler) SellByCode(w http.ResponseWriter, r *http.Request) {
	shopID, ctx, err := shopFromPath(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_shop", err.Error())
		return
	}

	var req SellByCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	h.respondOutcome(w, r.WithContext(ctx), h.sales.SellByExactCode(ctx, shopID, req.Code))
}

// SellByName handles POST /api/v1/shops/{shopId}/sales/name
func (h *SalesHandler) SellByName(w http.ResponseWriter, r *http.Request) {
	shopID, ctx, err := shopFromPath(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_shop", err.Error())
		return
	}

	var req SellByNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// An empty name and brand still goes through so the caller gets the
	// regular not_found outcome for malformed input.
	h.respondOutcome(w, r.WithContext(ctx), h.sales.SellByName(ctx, shopID, req.Name, req.Brand))
}

// SellByScan handles POST /api/v1/shops/{shopId}/sales/scan. The image is
// either the multipart field "image" or a raw image/* body.
func (h *SalesHandler) SellByScan(w http.ResponseWriter, r *http.Request) {
	shopID, ctx, err := shopFromPath(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_shop", err.Error())
		return
	}

	image, contentType, err := h.readImage(w, r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_image", err.Error())
		return
	}

	h.respondOutcome(w, r.WithContext(ctx), h.sales.SellByScan(ctx, shopID, image, contentType))
}

func (h *SalesHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", fmt.Errorf("content type is required")
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+1<<10)

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxImageBytes); err != nil {
			return nil, "", fmt.Errorf("failed to parse form data")
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", fmt.Errorf("image is required")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read image")
		}
		if int64(len(data)) > h.maxImageBytes {
			return nil, "", fmt.Errorf("image exceeds %d bytes", h.maxImageBytes)
		}
		return data, header.Header.Get("Content-Type"), nil
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return nil, "", fmt.Errorf("unsupported content type %q", mediaType)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("image exceeds %d bytes", h.maxImageBytes)
	}
	return data, mediaType, nil
}

func (h *SalesHandler) respondOutcome(w http.ResponseWriter, r *http.Request, outcome *domain.SaleOutcome) {
	ctx := r.Context()
	if outcome == nil {
		outcome = &domain.SaleOutcome{Status: domain.SaleStatusError, Message: "no outcome"}
	}
	status := OutcomeHTTPStatus(outcome)

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "sale failed",
			slog.String("channel", string(outcome.Channel)),
			slog.String("error", outcome.Message))
	}

	respondJSON(ctx, h.logger, w, status, outcome)
}

// OutcomeHTTPStatus maps a sale outcome onto its response code
func OutcomeHTTPStatus(outcome *domain.SaleOutcome) int {
	if outcome == nil {
		return http.StatusServiceUnavailable
	}
	switch outcome.Status {
	case domain.SaleStatusSold:
		return http.StatusOK
	case domain.SaleStatusNotFound:
		return http.StatusNotFound
	case domain.SaleStatusNoActiveBatch, domain.SaleStatusOutOfStock:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
