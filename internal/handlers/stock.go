// internal/handlers/stock.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/shelfscan/internal/core/ports"
)

// StockHandler reports per-shop stock health
type StockHandler struct {
	stock  ports.StockService
	logger *slog.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stock ports.StockService, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		stock:  stock,
		logger: logger.With(slog.String("handler", "stock")),
	}
}

// Summary handles GET /api/v1/shops/{shopId}/stock/summary
func (h *StockHandler) Summary(w http.ResponseWriter, r *http.Request) {
	shopID, ctx, err := shopFromPath(r)
	if err != nil {
		respondError(ctx, h.logger, w, http.StatusBadRequest, "invalid_shop", err.Error())
		return
	}

	summary, err := h.stock.Summary(ctx, shopID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get stock summary",
			slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusServiceUnavailable, "summary_unavailable", "Failed to get stock summary")
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=30")
	respondJSON(ctx, h.logger, w, http.StatusOK, summary)
}
