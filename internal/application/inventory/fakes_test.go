package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

// memStore simula la BD: Run trabaja sobre una copia y solo la publica si fn no falla.
type memStore struct {
	mu    sync.Mutex
	items map[string]entity.InventoryItem
	txs   []entity.InventoryTransaction
	runs  int
}

func newMemStore() *memStore {
	return &memStore{items: map[string]entity.InventoryItem{}}
}

func (s *memStore) clone() *memStore {
	c := &memStore{items: make(map[string]entity.InventoryItem, len(s.items))}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.txs = append(c.txs, s.txs...)
	return c
}

func (s *memStore) Run(ctx context.Context, fn func(repository.InventoryItemRepository, repository.InventoryTransactionRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	staged := s.clone()
	if err := fn(memItemRepo{staged}, memTxRepo{staged}); err != nil {
		return err
	}
	s.items = staged.items
	s.txs = staged.txs
	return nil
}

func (s *memStore) itemRepo() memItemRepo { return memItemRepo{s} }
func (s *memStore) txRepo() memTxRepo     { return memTxRepo{s} }

type memItemRepo struct{ s *memStore }

func (r memItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.items[item.ID] = *item
	return nil
}

func (r memItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r memItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r memItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	cur := r.s.items[item.ID]
	cur.Name, cur.Category, cur.Unit, cur.MinimumLevel, cur.UpdatedAt = item.Name, item.Category, item.Unit, item.MinimumLevel, item.UpdatedAt
	r.s.items[item.ID] = cur
	return nil
}

func (r memItemRepo) UpdateQuantity(_ context.Context, id string, q decimal.Decimal) error {
	cur := r.s.items[id]
	cur.Quantity = q
	r.s.items[id] = cur
	return nil
}

func (r memItemRepo) ListByFarm(_ context.Context, farmID string, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.s.items {
		if it.FarmID != farmID {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.LowStockOnly && it.StockStatus() == entity.StockStatusOK {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memItemRepo) Delete(_ context.Context, id string) error {
	delete(r.s.items, id)
	return nil
}

type memTxRepo struct{ s *memStore }

func (r memTxRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	r.s.txs = append(r.s.txs, *tx)
	return nil
}

func (r memTxRepo) matching(f repository.TransactionFilter) []*entity.InventoryTransaction {
	var out []*entity.InventoryTransaction
	for i := len(r.s.txs) - 1; i >= 0; i-- {
		tx := r.s.txs[i]
		if f.FarmID != "" && tx.FarmID != f.FarmID {
			continue
		}
		if f.InventoryID != "" && tx.InventoryID != f.InventoryID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		out = append(out, &tx)
	}
	return out
}

func (r memTxRepo) Count(_ context.Context, f repository.TransactionFilter) (int, error) {
	return len(r.matching(f)), nil
}

func (r memTxRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	out := r.matching(f)
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memTxRepo) ListChain(_ context.Context, inventoryID string) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, tx := range r.s.txs {
		if tx.InventoryID == inventoryID {
			tx := tx
			out = append(out, &tx)
		}
	}
	return out, nil
}

func (r memTxRepo) CountByItem(_ context.Context, inventoryID string) (int, error) {
	n := 0
	for _, tx := range r.s.txs {
		if tx.InventoryID == inventoryID {
			n++
		}
	}
	return n, nil
}

type countingMetrics struct {
	mu       sync.Mutex
	recorded map[string]int
	rejected map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{recorded: map[string]int{}, rejected: map[string]int{}}
}

func (m *countingMetrics) TransactionRecorded(t string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded[t]++
}

func (m *countingMetrics) TransactionRejected(_, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

type stubPDF struct {
	gotTxs int
}

func (p *stubPDF) GenerateKardexPDF(_ context.Context, _ *entity.InventoryItem, txs []*entity.InventoryTransaction) ([]byte, error) {
	p.gotTxs = len(txs)
	return []byte("%PDF-1.4"), nil
}
