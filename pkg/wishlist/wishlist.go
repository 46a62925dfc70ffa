// Package wishlist is the client-side wishlist: a set of product snapshots
// keyed by product id. It lives for the session only and is never persisted.
package wishlist

import (
	"sync"

	"storefront/pkg/catalog"
)

// State is an immutable wishlist snapshot.
type State struct {
	Items []catalog.Product `json:"items"`
}

// Action is a wishlist transition.
type Action interface {
	wishlistAction()
}

// Add inserts Product unless its id is already present.
type Add struct{ Product catalog.Product }

// Remove drops the product with ProductID.
type Remove struct{ ProductID string }

// Clear empties the wishlist.
type Clear struct{}

func (Add) wishlistAction()    {}
func (Remove) wishlistAction() {}
func (Clear) wishlistAction()  {}

// Reduce returns the state after applying action. An existing entry is never
// refreshed by Add. Unknown actions return state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Add:
		if Contains(state, a.Product.ID) {
			return state
		}
		items := make([]catalog.Product, len(state.Items), len(state.Items)+1)
		copy(items, state.Items)
		return State{Items: append(items, a.Product)}
	case Remove:
		if !Contains(state, a.ProductID) {
			return state
		}
		items := make([]catalog.Product, 0, len(state.Items))
		for _, p := range state.Items {
			if p.ID != a.ProductID {
				items = append(items, p)
			}
		}
		return State{Items: items}
	case Clear:
		return State{Items: []catalog.Product{}}
	default:
		return state
	}
}

// Contains reports whether productID is in state.
func Contains(state State, productID string) bool {
	for _, p := range state.Items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Wishlist holds the session's wishlist.
type Wishlist struct {
	mu    sync.RWMutex
	state State
}

// New returns an empty Wishlist.
func New() *Wishlist {
	return &Wishlist{state: State{Items: []catalog.Product{}}}
}

func (w *Wishlist) dispatch(action Action) {
	w.mu.Lock()
	w.state = Reduce(w.state, action)
	w.mu.Unlock()
}

// Add inserts p unless its id is already present.
func (w *Wishlist) Add(p catalog.Product) { w.dispatch(Add{Product: p}) }

// Remove drops productID if present.
func (w *Wishlist) Remove(productID string) { w.dispatch(Remove{ProductID: productID}) }

// Clear empties the wishlist.
func (w *Wishlist) Clear() { w.dispatch(Clear{}) }

// Items returns the products in insertion order.
func (w *Wishlist) Items() []catalog.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]catalog.Product{}, w.state.Items...)
}

// IsInWishlist reports whether productID is in the wishlist.
func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Contains(w.state, productID)
}
