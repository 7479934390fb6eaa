// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/test/helpers"
)

var brands = []string{"Parle", "Britannia", "Amul", "Haldiram's", "Nestle", "Tata", "Dabur", "ITC"}

// seededShop is a shop with a catalog of products, each holding one batch
type seededShop struct {
	store    *memstore.Store
	shop     *domain.Shop
	products []*domain.Product
	batches  []*domain.InventoryBatch
}

// seedCatalog fills a fresh in-memory store with n products in one shop
func seedCatalog(b *testing.B, n, quantity int) *seededShop {
	b.Helper()
	st := memstore.New()
	shop, _ := helpers.SeedShopAndProduct(b, st)

	s := &seededShop{store: st, shop: shop}
	for i := 0; i < n; i++ {
		brand := brands[i%len(brands)]
		gtin := fmt.Sprintf("890%010d", i)
		p := helpers.SeedProduct(b, st, func(p *domain.Product) {
			p.Name = fmt.Sprintf("%s Product %d", brand, i)
			p.Brand = &brand
			p.GTIN = &gtin
		})
		batch := helpers.SeedBatch(b, st, p.ID, shop.ID, func(bt *domain.InventoryBatch) {
			bt.Quantity = quantity
		})
		s.products = append(s.products, p)
		s.batches = append(s.batches, batch)
	}
	return s
}

// candidates builds n scorer candidates with a spread of names and brands
func candidates(n int) []domain.Candidate {
	out := make([]domain.Candidate, n)
	for i := range out {
		brand := brands[i%len(brands)]
		out[i] = domain.Candidate{
			BatchID:      uuid.New(),
			Quantity:     1 + i%5,
			ProductName:  fmt.Sprintf("%s Product %d", brand, i),
			ProductBrand: &brand,
		}
	}
	return out
}
