// internal/handlers/listings.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/shelfscan/internal/catalog"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// ListingHandler serves the product feed and its export
type ListingHandler struct {
	listings ports.ListingService
	logger   *slog.Logger
	now      func() time.Time
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings ports.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		logger:   logger.With(slog.String("handler", "listing")),
		now:      time.Now,
	}
}

// ListingResponse wraps a composed listing
type ListingResponse struct {
	Rows  []domain.ListingRow `json:"rows"`
	Count int                 `json:"count"`
}

// List handles GET /api/v1/listings?shop_id=&q=
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := listingFilter(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rows, err := h.listings.GetListing(ctx, filter)
	if err != nil {
		h.respondListingError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(len(rows)))
	respondJSON(ctx, h.logger, w, http.StatusOK, ListingResponse{Rows: rows, Count: len(rows)})
}

// Refresh handles POST /api/v1/listings/refresh?shop_id=
func (h *ListingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shopID, err := optionalShop(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.listings.Refresh(ctx, shopID); err != nil {
		h.logger.ErrorContext(ctx, "listing refresh failed",
			slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusServiceUnavailable, "refresh_failed", "Failed to refresh listing")
		return
	}

	scope := "all"
	if shopID != nil {
		scope = shopID.String()
	}
	respondJSON(ctx, h.logger, w, http.StatusOK, map[string]string{"refreshed": scope})
}

// Export handles GET /api/v1/listings/export?format=xlsx|json
func (h *ListingHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "json" {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("unsupported export format %q", format))
		return
	}

	filter, err := listingFilter(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rows, err := h.listings.GetListing(ctx, filter)
	if err != nil {
		h.respondListingError(w, r, err)
		return
	}

	filename := fmt.Sprintf("listing_%s.%s", h.now().UTC().Format("20060102_150405"), format)

	if format == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		respondJSON(ctx, h.logger, w, http.StatusOK, ListingResponse{Rows: rows, Count: len(rows)})
		return
	}

	var buf bytes.Buffer
	if err := catalog.WriteListingWorkbook(&buf, rows); err != nil {
		h.logger.ErrorContext(ctx, "failed to build listing workbook",
			slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusInternalServerError, "export_failed", "Failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(ctx, "failed to write export",
			slog.String("error", err.Error()))
	}
}

func (h *ListingHandler) respondListingError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, "listing unavailable",
		slog.String("error", err.Error()))

	if errors.Is(err, domain.ErrListingUnavailable) {
		respondError(ctx, h.logger, w, http.StatusServiceUnavailable, "listing_unavailable", "Listing is temporarily unavailable")
		return
	}
	respondError(ctx, h.logger, w, http.StatusInternalServerError, "internal_error", "Failed to load listing")
}

func listingFilter(r *http.Request) (domain.ListingFilter, error) {
	shopID, err := optionalShop(r)
	if err != nil {
		return domain.ListingFilter{}, err
	}
	return domain.ListingFilter{ShopID: shopID, Search: r.URL.Query().Get("q")}, nil
}
