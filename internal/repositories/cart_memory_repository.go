package repositories

import (
	"context"
	"sync"

	"storefront/pkg/catalog"
)

// InMemoryCartRepository keeps carts in process memory. It is used when no
// Redis address is configured.
type InMemoryCartRepository struct {
	carts map[string][]catalog.CartItem
	mu    sync.RWMutex
}

// NewInMemoryCartRepository creates a new instance of InMemoryCartRepository.
func NewInMemoryCartRepository() *InMemoryCartRepository {
	return &InMemoryCartRepository{
		carts: make(map[string][]catalog.CartItem),
	}
}

// Get returns a copy of the user's cart.
func (r *InMemoryCartRepository) Get(_ context.Context, userID string) ([]catalog.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]catalog.CartItem{}, r.carts[userID]...), nil
}

// Save replaces the user's cart.
func (r *InMemoryCartRepository) Save(_ context.Context, userID string, items []catalog.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[userID] = append([]catalog.CartItem{}, items...)
	return nil
}

// Delete drops the user's cart.
func (r *InMemoryCartRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}
