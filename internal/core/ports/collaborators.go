// internal/core/ports/collaborators.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

// Scanner extracts a GTIN or a name/brand pair from an image. Results are
// best-effort and may be empty.
type Scanner interface {
	Scan(ctx context.Context, image []byte, contentType string) (*domain.ScanResult, error)
}

// ScanArchive keeps scanned images for later review
type ScanArchive interface {
	Store(ctx context.Context, shopID uuid.UUID, image []byte, contentType string) (string, error)
}

// ChangeFeed delivers inventory batch change events until ctx is done
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
}

// SaleEventPublisher hands sale events to background processing
type SaleEventPublisher interface {
	PublishSale(ctx context.Context, event domain.SaleEvent) error
	PublishListingRefresh(ctx context.Context, shopID *uuid.UUID) error
}
