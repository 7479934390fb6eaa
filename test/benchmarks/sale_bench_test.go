// test/benchmarks/sale_bench_test.go
package benchmarks

import (
	"context"
	"errors"
	"testing"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/test/helpers"
)

func BenchmarkScoreCandidates(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		cands := candidates(n)
		b.Run(sizeName(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = domain.TopMatch(domain.ScoreCandidates("Parle Product 40", "parle", cands))
			}
		})
	}
}

func BenchmarkResolve(b *testing.B) {
	s := seedCatalog(b, 500, 1<<30)
	logger := helpers.TestLogger()
	resolver := services.NewSaleResolver(s.store.Products(), s.store.Batches(),
		services.NewBatchSelector(s.store.Batches(), logger), logger)
	ctx := context.Background()

	gtin := *s.products[250].GTIN
	name := s.products[250].Name
	fragment := "oduct 49"
	unknown := "Marie Gold"

	cases := []struct {
		name string
		req  domain.SaleRequest
	}{
		{"ExactCode", domain.SaleRequest{Code: &gtin}},
		{"Fuzzy", domain.SaleRequest{Name: &name}},
		{"PartialName", domain.SaleRequest{Name: &fragment}},
		{"NotFound", domain.SaleRequest{Name: &unknown}},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := resolver.Resolve(ctx, s.shop.ID, tc.req)
				if err != nil && !errors.Is(err, domain.ErrNotFound) {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecrementOne(b *testing.B) {
	s := seedCatalog(b, 1, 1<<30)
	decrementer := services.NewDecrementer(s.store.Batches(), 1, helpers.TestLogger())
	ctx := context.Background()
	batchID := s.batches[0].ID

	b.Run("Serial", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := decrementer.DecrementOne(ctx, batchID); err != nil {
				b.Fatal(err)
			}
		}
	})

	// Contended CAS on a single batch; lost races surface as out of stock
	b.Run("Parallel", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, err := decrementer.DecrementOne(ctx, batchID)
				if err != nil && !errors.Is(err, domain.ErrOutOfStock) {
					b.Error(err)
				}
			}
		})
	})
}

func BenchmarkListingCompose(b *testing.B) {
	s := seedCatalog(b, 1000, 10)
	logger := helpers.TestLogger()
	composer := services.NewListingComposer(s.store.Listings(), s.store.Batches(), s.store.Products(),
		s.store.Shops(), nil, 0, logger)
	ctx := context.Background()
	filter := domain.ListingFilter{ShopID: &s.shop.ID}

	b.Run("Joined", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := composer.Compose(ctx, filter); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Fallback", func(b *testing.B) {
		s.store.SetJoinError(errors.New("relationship not found"))
		defer s.store.SetJoinError(nil)

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := composer.Compose(ctx, filter); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Search", func(b *testing.B) {
		search := domain.ListingFilter{ShopID: &s.shop.ID, Search: "britannia"}
		for i := 0; i < b.N; i++ {
			if _, err := composer.Compose(ctx, search); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func sizeName(n int) string {
	switch {
	case n >= 1000:
		return "1k"
	case n >= 100:
		return "100"
	default:
		return "10"
	}
}
