package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

func TestInventoryBatch_Validate(t *testing.T) {
	tests := []struct {
		name      string
		batch     *domain.InventoryBatch
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_batch_defaults_status",
			batch: &domain.InventoryBatch{
				ProductID:       uuid.New(),
				ShopID:          uuid.New(),
				Quantity:        3,
				DiscountPercent: decimal.NewFromInt(10),
			},
		},
		{
			name:      "missing_product",
			batch:     &domain.InventoryBatch{ShopID: uuid.New()},
			wantError: true,
			errorMsg:  "product_id is required",
		},
		{
			name:      "missing_shop",
			batch:     &domain.InventoryBatch{ProductID: uuid.New()},
			wantError: true,
			errorMsg:  "shop_id is required",
		},
		{
			name:      "negative_quantity",
			batch:     &domain.InventoryBatch{ProductID: uuid.New(), ShopID: uuid.New(), Quantity: -1},
			wantError: true,
			errorMsg:  "quantity cannot be negative",
		},
		{
			name: "discount_over_100",
			batch: &domain.InventoryBatch{
				ProductID:       uuid.New(),
				ShopID:          uuid.New(),
				DiscountPercent: decimal.NewFromInt(101),
			},
			wantError: true,
			errorMsg:  "discount_percent must be between 0 and 100",
		},
		{
			name: "unknown_status",
			batch: &domain.InventoryBatch{
				ProductID: uuid.New(),
				ShopID:    uuid.New(),
				Status:    "archived",
			},
			wantError: true,
			errorMsg:  "unknown status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.batch.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.BatchStatusActive, tt.batch.Status)
		})
	}
}

func TestInventoryBatch_IsSellable(t *testing.T) {
	b := &domain.InventoryBatch{Status: domain.BatchStatusActive, Quantity: 1}
	assert.True(t, b.IsSellable())

	b.Quantity = 0
	assert.False(t, b.IsSellable())

	b.Quantity = 5
	b.Status = domain.BatchStatusInactive
	assert.False(t, b.IsSellable())
}

func TestInventoryBatch_ExpiresBefore(t *testing.T) {
	now := time.Now()
	b := &domain.InventoryBatch{}
	assert.False(t, b.ExpiresBefore(now), "no expiry never expires")

	past := now.Add(-time.Hour)
	b.ExpiryDate = &past
	assert.True(t, b.ExpiresBefore(now))
}

func TestProduct_Validate(t *testing.T) {
	p := &domain.Product{Name: "Parle G", GTIN: strPtr(" 8901234567890 "), Brand: strPtr("  ")}
	require.NoError(t, p.Validate())
	assert.Equal(t, "8901234567890", *p.GTIN)
	assert.Nil(t, p.Brand)
	assert.Equal(t, domain.CategoryOther, p.Category)

	bad := &domain.Product{Name: "Parle G", GTIN: strPtr("89A")}
	assert.Error(t, bad.Validate())

	assert.Error(t, (&domain.Product{}).Validate())
}

func TestIsValidGTIN(t *testing.T) {
	assert.True(t, domain.IsValidGTIN("96385074"))
	assert.True(t, domain.IsValidGTIN("036000291452"))
	assert.True(t, domain.IsValidGTIN("8901234567890"))
	assert.True(t, domain.IsValidGTIN("18901234567897"))
	assert.False(t, domain.IsValidGTIN("123"))
	assert.False(t, domain.IsValidGTIN("89012345678X0"))
}
