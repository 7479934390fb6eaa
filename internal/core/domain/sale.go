// internal/core/domain/sale.go
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus is the tagged outcome of a sale attempt
type SaleStatus string

// Sale status constants
const (
	SaleStatusSold          SaleStatus = "sold"
	SaleStatusNotFound      SaleStatus = "not_found"
	SaleStatusNoActiveBatch SaleStatus = "no_active_batch"
	SaleStatusOutOfStock    SaleStatus = "out_of_stock"
	SaleStatusError         SaleStatus = "error"
)

// SaleChannel records how the sold item was identified
type SaleChannel string

const (
	ChannelCode SaleChannel = "code"
	ChannelScan SaleChannel = "scan"
	ChannelName SaleChannel = "name"
)

// ScanResult is the best-effort output of the OCR collaborator
type ScanResult struct {
	GTIN        *string `json:"gtin,omitempty"`
	ProductName *string `json:"product_name,omitempty"`
	Brand       *string `json:"brand,omitempty"`
}

// IsEmpty reports whether the scan produced neither a code nor a name or brand
func (r *ScanResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	return blank(r.GTIN) && blank(r.ProductName) && blank(r.Brand)
}

// SaleRequest carries whatever identifying input the caller has
type SaleRequest struct {
	Code  *string `json:"code,omitempty"`
	Name  *string `json:"name,omitempty"`
	Brand *string `json:"brand,omitempty"`
}

// HasCode reports whether an exact identifier is present
func (r SaleRequest) HasCode() bool { return !blank(r.Code) }

// HasName reports whether a product name is present
func (r SaleRequest) HasName() bool { return !blank(r.Name) }

// HasText reports whether a name or a brand is present
func (r SaleRequest) HasText() bool { return !blank(r.Name) || !blank(r.Brand) }

// SaleOutcome is returned by every caller-facing sale operation
type SaleOutcome struct {
	Status  SaleStatus      `json:"status"`
	Channel SaleChannel     `json:"channel"`
	Batch   *InventoryBatch `json:"batch,omitempty"`
	Match   *ResolvedMatch  `json:"match,omitempty"`
	Stage   string          `json:"stage,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Sold reports whether a unit was decremented
func (o *SaleOutcome) Sold() bool { return o != nil && o.Status == SaleStatusSold }

// OutcomeFromError maps an error onto a tagged outcome
func OutcomeFromError(channel SaleChannel, err error) *SaleOutcome {
	out := &SaleOutcome{Channel: channel, Message: err.Error()}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformedScan), errors.Is(err, ErrBatchNotFound):
		out.Status = SaleStatusNotFound
	case errors.Is(err, ErrNoActiveBatch):
		out.Status = SaleStatusNoActiveBatch
	case errors.Is(err, ErrOutOfStock):
		out.Status = SaleStatusOutOfStock
	default:
		out.Status = SaleStatusError
	}
	return out
}

// SaleEvent is emitted after a successful decrement
type SaleEvent struct {
	ID                uuid.UUID       `json:"id"`
	BatchID           uuid.UUID       `json:"batch_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ShopID            uuid.UUID       `json:"shop_id"`
	Channel           SaleChannel     `json:"channel"`
	RemainingQuantity int             `json:"remaining_quantity"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	Score             *float64        `json:"score,omitempty"`
	SoldAt            time.Time       `json:"sold_at"`
}

// NewSaleEvent builds an event from the decremented batch
func NewSaleEvent(batch *InventoryBatch, channel SaleChannel, match *ResolvedMatch) SaleEvent {
	ev := SaleEvent{
		ID:                uuid.New(),
		BatchID:           batch.ID,
		ProductID:         batch.ProductID,
		ShopID:            batch.ShopID,
		Channel:           channel,
		RemainingQuantity: batch.Quantity,
		DiscountPercent:   batch.DiscountPercent,
		SoldAt:            time.Now().UTC(),
	}
	if match != nil {
		score := match.Score
		ev.Score = &score
	}
	return ev
}

// ChangeOp is the kind of row change reported by the change feed
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// ChangeEvent signals that an inventory batch row changed
type ChangeEvent struct {
	Table   string    `json:"table"`
	Op      ChangeOp  `json:"op"`
	BatchID uuid.UUID `json:"batch_id"`
	ShopID  uuid.UUID `json:"shop_id"`
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
