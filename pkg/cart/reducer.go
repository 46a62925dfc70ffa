// Package cart holds the client-side shopping cart: a pure reducer over cart
// actions and a Session that persists the result.
package cart

import (
	"storefront/pkg/catalog"
	"storefront/pkg/pricing"
)

// State is an immutable cart snapshot. Total and ItemCount are derived from Items.
type State struct {
	Items     []catalog.CartItem `json:"items"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"itemCount"`
}

// Action is a cart transition.
type Action interface {
	cartAction()
}

// AddToCart adds one unit of Product, appending a new line when absent.
type AddToCart struct{ Product catalog.Product }

// RemoveFromCart drops the line for ProductID.
type RemoveFromCart struct{ ProductID string }

// UpdateQuantity sets the quantity of the line for ProductID. Quantity must be at least 1.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// ClearCart empties the cart.
type ClearCart struct{}

// LoadCart replaces the lines wholesale.
type LoadCart struct{ Items []catalog.CartItem }

func (AddToCart) cartAction()      {}
func (RemoveFromCart) cartAction() {}
func (UpdateQuantity) cartAction() {}
func (ClearCart) cartAction()      {}
func (LoadCart) cartAction()       {}

// Reduce returns the state after applying action. state is never modified.
// Unknown actions return state unchanged.
func Reduce(state State, action Action) State {
	var items []catalog.CartItem

	switch a := action.(type) {
	case AddToCart:
		items = copyItems(state.Items)
		found := false
		for i := range items {
			if items[i].Product.ID == a.Product.ID {
				items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			items = append(items, catalog.CartItem{Product: a.Product, Quantity: 1})
		}
	case RemoveFromCart:
		items = make([]catalog.CartItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.Product.ID != a.ProductID {
				items = append(items, it)
			}
		}
	case UpdateQuantity:
		items = copyItems(state.Items)
		for i := range items {
			if items[i].Product.ID == a.ProductID {
				items[i].Quantity = a.Quantity
			}
		}
	case ClearCart:
		items = []catalog.CartItem{}
	case LoadCart:
		items = copyItems(a.Items)
	default:
		return state
	}

	return newState(items)
}

func newState(items []catalog.CartItem) State {
	lines := make([]pricing.Line, 0, len(items))
	count := 0
	for _, it := range items {
		lines = append(lines, pricing.Line{Price: it.Product.Price, Quantity: it.Quantity})
		count += it.Quantity
	}
	return State{
		Items:     items,
		Total:     pricing.Subtotal(lines),
		ItemCount: count,
	}
}

func copyItems(items []catalog.CartItem) []catalog.CartItem {
	out := make([]catalog.CartItem, len(items))
	copy(out, items)
	return out
}
