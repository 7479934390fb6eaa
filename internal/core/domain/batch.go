// internal/core/domain/batch.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle state of an inventory batch
type BatchStatus string

// Batch status constants
const (
	BatchStatusActive   BatchStatus = "active"
	BatchStatusInactive BatchStatus = "inactive"
	BatchStatusRecalled BatchStatus = "recalled"
	BatchStatusExpired  BatchStatus = "expired"
)

// IsValid reports whether s is a known status
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusActive, BatchStatusInactive, BatchStatusRecalled, BatchStatusExpired:
		return true
	}
	return false
}

// InventoryBatch is a dated lot of one product stocked at one shop.
// Quantity is only ever lowered through a conditional update.
type InventoryBatch struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ShopID          uuid.UUID       `json:"shop_id"`
	Quantity        int             `json:"quantity"`
	Status          BatchStatus     `json:"status"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsActive reports whether the batch may be listed or resolved
func (b *InventoryBatch) IsActive() bool {
	return b.Status == BatchStatusActive
}

// IsSellable reports whether the batch is active with stock left
func (b *InventoryBatch) IsSellable() bool {
	return b.IsActive() && b.Quantity > 0
}

// ExpiresBefore reports whether the batch has an expiry date before t
func (b *InventoryBatch) ExpiresBefore(t time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(t)
}

// Validate performs domain validation on the batch
func (b *InventoryBatch) Validate() error {
	if b.ProductID == uuid.Nil {
		return fmt.Errorf("product_id is required")
	}
	if b.ShopID == uuid.Nil {
		return fmt.Errorf("shop_id is required")
	}
	if b.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if b.DiscountPercent.IsNegative() || b.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("discount_percent must be between 0 and 100")
	}
	if b.Status == "" {
		b.Status = BatchStatusActive
	}
	if !b.Status.IsValid() {
		return fmt.Errorf("unknown status %q", b.Status)
	}
	return nil
}

// PrepareForStorage sets identity and timestamps
func (b *InventoryBatch) PrepareForStorage() {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// BatchQuery filters active batch reads. Results are always ordered
// expiry_date ascending (nulls last) then id.
type BatchQuery struct {
	ProductID    *uuid.UUID
	ShopID       *uuid.UUID
	PositiveOnly bool
	Limit        uint64
}

// StockSummary aggregates batch counts for one shop
type StockSummary struct {
	ShopID          uuid.UUID `json:"shop_id"`
	ActiveBatches   int64     `json:"active_batches"`
	SellableBatches int64     `json:"sellable_batches"`
	OutOfStock      int64     `json:"out_of_stock"`
	ExpiringSoon    int64     `json:"expiring_soon"`
	TotalUnits      int64     `json:"total_units"`
	GeneratedAt     time.Time `json:"generated_at"`
}
