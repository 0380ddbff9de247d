// Package basketstore keeps baskets between requests.
package basketstore

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.BasketStore = (*MemoryStore)(nil)

// MemoryStore is a process local store, baskets are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	baskets map[string][]domain.BasketItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{baskets: make(map[string][]domain.BasketItem)}
}

// LoadBasket returns an empty basket for an unknown id.
func (s *MemoryStore) LoadBasket(
	ctx context.Context, basketID string,
) (domain.Basket, error) {
	if err := ctx.Err(); err != nil {
		return domain.Basket{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b := domain.NewBasket(basketID)
	b.Items = copyItems(s.baskets[basketID])
	return b, nil
}

// UpdateBasket runs fn under the store lock, so updates of one basket
// are serialized.
func (s *MemoryStore) UpdateBasket(
	ctx context.Context, basketID string, fn func(*domain.Basket) error,
) (domain.Basket, error) {
	if err := ctx.Err(); err != nil {
		return domain.Basket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := domain.NewBasket(basketID)
	b.Items = copyItems(s.baskets[basketID])
	if err := fn(&b); err != nil {
		return domain.Basket{}, err
	}

	if b.IsEmpty() {
		delete(s.baskets, basketID)
		return b, nil
	}
	s.baskets[basketID] = copyItems(b.Items)
	return b, nil
}

func (s *MemoryStore) DeleteBasket(ctx context.Context, basketID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.baskets, basketID)
	return nil
}

func copyItems(items []domain.BasketItem) []domain.BasketItem {
	if len(items) == 0 {
		return nil
	}
	return append([]domain.BasketItem(nil), items...)
}
