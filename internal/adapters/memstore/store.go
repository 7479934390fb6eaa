// Package memstore is an in-process implementation of the store ports. It
// backs dev mode and tests; every method copies values in and out so
// callers never share memory with the store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

const feedBuffer = 64

// Store holds products, shops, batches and sale events
type Store struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]domain.Product
	shops      map[uuid.UUID]domain.Shop
	batches    map[uuid.UUID]domain.InventoryBatch
	saleEvents []domain.SaleEvent
	joinErr    error

	subMu       sync.Mutex
	subscribers map[chan domain.ChangeEvent]struct{}
}

// New creates an empty store
func New() *Store {
	return &Store{
		products:    make(map[uuid.UUID]domain.Product),
		shops:       make(map[uuid.UUID]domain.Shop),
		batches:     make(map[uuid.UUID]domain.InventoryBatch),
		subscribers: make(map[chan domain.ChangeEvent]struct{}),
	}
}

// Products returns the product repository view
func (s *Store) Products() ports.ProductRepository { return productRepo{s} }

// Shops returns the shop repository view
func (s *Store) Shops() ports.ShopRepository { return shopRepo{s} }

// Batches returns the batch repository view
func (s *Store) Batches() ports.BatchRepository { return batchRepo{s} }

// Listings returns the joined listing view
func (s *Store) Listings() ports.ListingRepository { return listingRepo{s} }

// SaleEvents returns the sale audit view
func (s *Store) SaleEvents() ports.SaleEventRepository { return saleEventRepo{s} }

// SetJoinError makes the joined listing read fail with err until reset
// with nil. It simulates a store without relational metadata.
func (s *Store) SetJoinError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinErr = err
}

// RecordedSales returns a copy of the sale audit trail
func (s *Store) RecordedSales() []domain.SaleEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SaleEvent(nil), s.saleEvents...)
}

// Subscribe delivers batch change events until ctx is done. Slow
// subscribers miss events rather than block writers.
func (s *Store) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent, feedBuffer)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subscribers, ch)
		close(ch)
		s.subMu.Unlock()
	}()

	return ch, nil
}

func (s *Store) notify(op domain.ChangeOp, b domain.InventoryBatch) {
	ev := domain.ChangeEvent{Table: "inventory_batches", Op: op, BatchID: b.ID, ShopID: b.ShopID}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

var _ ports.ChangeFeed = (*Store)(nil)

type productRepo struct{ s *Store }

func (r productRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) FindByGTIN(_ context.Context, gtin string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.GTIN != nil && *p.GTIN == gtin {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) FindFirstByNameFragment(_ context.Context, fragment string) (*domain.Product, error) {
	needle := strings.ToLower(fragment)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var hits []domain.Product
	for _, p := range r.s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Name != hits[j].Name {
			return hits[i].Name < hits[j].Name
		}
		return hits[i].ID.String() < hits[j].ID.String()
	})
	return &hits[0], nil
}

func (r productRepo) FindByName(_ context.Context, name string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r productRepo) Upsert(_ context.Context, p *domain.Product) error {
	p.PrepareForStorage()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = *p
	return nil
}

type shopRepo struct{ s *Store }

func (r shopRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Shop, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sh, ok := r.s.shops[id]
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

func (r shopRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Shop, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Shop, 0, len(ids))
	for _, id := range ids {
		if sh, ok := r.s.shops[id]; ok {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (r shopRepo) FindByName(_ context.Context, name string) (*domain.Shop, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sh := range r.s.shops {
		if strings.EqualFold(sh.Name, name) {
			return &sh, nil
		}
	}
	return nil, nil
}

func (r shopRepo) Upsert(_ context.Context, sh *domain.Shop) error {
	sh.PrepareForStorage()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.shops[sh.ID] = *sh
	return nil
}

type batchRepo struct{ s *Store }

func (r batchRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.InventoryBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r batchRepo) FindActive(_ context.Context, q domain.BatchQuery) ([]domain.InventoryBatch, error) {
	r.s.mu.RLock()
	out := make([]domain.InventoryBatch, 0)
	for _, b := range r.s.batches {
		if !b.IsActive() {
			continue
		}
		if q.ProductID != nil && b.ProductID != *q.ProductID {
			continue
		}
		if q.ShopID != nil && b.ShopID != *q.ShopID {
			continue
		}
		if q.PositiveOnly && b.Quantity <= 0 {
			continue
		}
		out = append(out, b)
	}
	r.s.mu.RUnlock()

	sortFEFO(out)
	if q.Limit > 0 && uint64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r batchRepo) CompareAndSwapQuantity(_ context.Context, id uuid.UUID, expected, next int) (bool, error) {
	r.s.mu.Lock()
	b, ok := r.s.batches[id]
	if !ok || b.Quantity != expected || !b.IsActive() {
		r.s.mu.Unlock()
		return false, nil
	}
	b.Quantity = next
	b.UpdatedAt = time.Now()
	r.s.batches[id] = b
	r.s.mu.Unlock()

	r.s.notify(domain.ChangeUpdate, b)
	return true, nil
}

func (r batchRepo) FindSellableCatalog(_ context.Context, shopID uuid.UUID) ([]ports.CatalogEntry, error) {
	r.s.mu.RLock()
	batches := make([]domain.InventoryBatch, 0)
	for _, b := range r.s.batches {
		if b.ShopID == shopID && b.IsSellable() {
			if _, ok := r.s.products[b.ProductID]; ok {
				batches = append(batches, b)
			}
		}
	}
	sortFEFO(batches)
	out := make([]ports.CatalogEntry, 0, len(batches))
	for _, b := range batches {
		out = append(out, ports.CatalogEntry{Batch: b, Product: r.s.products[b.ProductID]})
	}
	r.s.mu.RUnlock()
	return out, nil
}

func (r batchRepo) Upsert(_ context.Context, b *domain.InventoryBatch) error {
	b.PrepareForStorage()
	r.s.mu.Lock()
	_, existed := r.s.batches[b.ID]
	r.s.batches[b.ID] = *b
	r.s.mu.Unlock()

	op := domain.ChangeInsert
	if existed {
		op = domain.ChangeUpdate
	}
	r.s.notify(op, *b)
	return nil
}

func (r batchRepo) AddQuantity(_ context.Context, id uuid.UUID, delta int) error {
	r.s.mu.Lock()
	b, ok := r.s.batches[id]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrBatchNotFound
	}
	if b.Quantity+delta < 0 {
		r.s.mu.Unlock()
		return domain.ErrOutOfStock
	}
	b.Quantity += delta
	b.UpdatedAt = time.Now()
	r.s.batches[id] = b
	r.s.mu.Unlock()

	r.s.notify(domain.ChangeUpdate, b)
	return nil
}

func (r batchRepo) ExpireBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var changed []domain.InventoryBatch
	r.s.mu.Lock()
	for id, b := range r.s.batches {
		if b.IsActive() && b.ExpiresBefore(cutoff) {
			b.Status = domain.BatchStatusExpired
			b.UpdatedAt = time.Now()
			r.s.batches[id] = b
			changed = append(changed, b)
		}
	}
	r.s.mu.Unlock()

	for _, b := range changed {
		r.s.notify(domain.ChangeUpdate, b)
	}
	return int64(len(changed)), nil
}

func (r batchRepo) Summary(_ context.Context, shopID uuid.UUID, expiringWithin time.Duration) (*domain.StockSummary, error) {
	now := time.Now()
	horizon := now.Add(expiringWithin)
	sum := &domain.StockSummary{ShopID: shopID, GeneratedAt: now.UTC()}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.batches {
		if b.ShopID != shopID || !b.IsActive() {
			continue
		}
		sum.ActiveBatches++
		sum.TotalUnits += int64(b.Quantity)
		if b.Quantity > 0 {
			sum.SellableBatches++
		} else {
			sum.OutOfStock++
		}
		if b.ExpiryDate != nil && !b.ExpiryDate.Before(now) && b.ExpiryDate.Before(horizon) {
			sum.ExpiringSoon++
		}
	}
	return sum, nil
}

type listingRepo struct{ s *Store }

// FindJoined left-joins batches to products and shops; a dangling
// reference yields a nil side rather than dropping the row.
func (r listingRepo) FindJoined(_ context.Context, shopID *uuid.UUID) ([]domain.ListingRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.joinErr != nil {
		return nil, r.s.joinErr
	}

	batches := make([]domain.InventoryBatch, 0, len(r.s.batches))
	for _, b := range r.s.batches {
		if b.IsActive() && (shopID == nil || b.ShopID == *shopID) {
			batches = append(batches, b)
		}
	}
	sortFEFO(batches)

	rows := make([]domain.ListingRow, 0, len(batches))
	for _, b := range batches {
		row := domain.ListingRow{InventoryBatch: b}
		if p, ok := r.s.products[b.ProductID]; ok {
			row.Product = &p
		}
		if sh, ok := r.s.shops[b.ShopID]; ok {
			row.Shop = &sh
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type saleEventRepo struct{ s *Store }

func (r saleEventRepo) Record(_ context.Context, ev *domain.SaleEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.saleEvents {
		if existing.ID == ev.ID {
			return nil
		}
	}
	r.s.saleEvents = append(r.s.saleEvents, *ev)
	return nil
}

func (r saleEventRepo) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.saleEvents[:0]
	var pruned int64
	for _, ev := range r.s.saleEvents {
		if ev.SoldAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, ev)
	}
	r.s.saleEvents = kept
	return pruned, nil
}

// sortFEFO orders by expiry ascending with undated batches last, then id
func sortFEFO(batches []domain.InventoryBatch) {
	sort.Slice(batches, func(i, j int) bool {
		a, b := batches[i].ExpiryDate, batches[j].ExpiryDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return batches[i].ID.String() < batches[j].ID.String()
	})
}
