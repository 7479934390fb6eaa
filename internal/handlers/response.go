// internal/handlers/response.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/pkg/logger"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

const maxJSONBodyBytes = 1 << 20

func respondJSON(ctx context.Context, l *slog.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		l.ErrorContext(ctx, "failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(ctx context.Context, l *slog.Logger, w http.ResponseWriter, status int, code, message string) {
	respondJSON(ctx, l, w, status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: logger.RequestID(ctx),
	})
}

// shopFromPath reads the {shopId} path segment and tags ctx with it
func shopFromPath(r *http.Request) (uuid.UUID, context.Context, error) {
	raw := r.PathValue("shopId")
	shopID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, r.Context(), fmt.Errorf("invalid shop id %q", raw)
	}
	return shopID, logger.WithShopID(r.Context(), shopID), nil
}

// optionalShop reads the shop_id query parameter. An absent parameter
// yields nil.
func optionalShop(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("shop_id")
	if raw == "" {
		return nil, nil
	}
	shopID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid shop_id %q", raw)
	}
	return &shopID, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
