package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/pkg/catalog"
	"storefront/pkg/pricing"
	"storefront/pkg/storage"

	"github.com/rs/zerolog/log"
)

// StorageKey is where an anonymous cart is kept.
const StorageKey = "cart"

// ErrEmptyCart is returned when ordering an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// CartAPI is the backend cart of an authenticated user.
type CartAPI interface {
	GetCart(ctx context.Context) ([]catalog.CartItem, error)
	SaveCart(ctx context.Context, items []catalog.CartItem) error
}

// OrderAPI submits orders.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.OrderResult, error)
}

// Session owns the current cart and persists it after every change: to
// local storage when anonymous, to the backend cart when authenticated.
type Session struct {
	mu            sync.Mutex
	state         State
	store         storage.Storage
	carts         CartAPI
	orders        OrderAPI
	authenticated func() bool
}

// NewSession creates an empty session. authenticated may be nil, in which
// case the session is always anonymous. Without carts the session keeps
// using local storage even when authenticated.
func NewSession(store storage.Storage, carts CartAPI, orders OrderAPI, authenticated func() bool) *Session {
	if authenticated == nil {
		authenticated = func() bool { return false }
	}
	return &Session{
		state:         newState([]catalog.CartItem{}),
		store:         store,
		carts:         carts,
		orders:        orders,
		authenticated: authenticated,
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load replaces the cart with the persisted one. A stored cart that cannot
// be decoded is discarded.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []catalog.CartItem
	if s.synced() {
		remote, err := s.carts.GetCart(ctx)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		items = remote
	} else {
		raw, ok, err := s.store.Get(StorageKey)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if ok {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				log.Warn().Err(err).Msg("discarding unreadable stored cart")
				items = nil
				if err := s.store.Remove(StorageKey); err != nil {
					return fmt.Errorf("remove stored cart: %w", err)
				}
			}
		}
	}
	if items == nil {
		items = []catalog.CartItem{}
	}

	s.state = Reduce(s.state, LoadCart{Items: items})
	return nil
}

// AddToCart adds one unit of p.
func (s *Session) AddToCart(ctx context.Context, p catalog.Product) error {
	return s.dispatch(ctx, AddToCart{Product: p})
}

// RemoveFromCart drops the line for productID.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) error {
	return s.dispatch(ctx, RemoveFromCart{ProductID: productID})
}

// UpdateQuantity sets the quantity of a line. A quantity below 1 removes it.
func (s *Session) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return s.dispatch(ctx, RemoveFromCart{ProductID: productID})
	}
	return s.dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// Clear empties the cart.
func (s *Session) Clear(ctx context.Context) error {
	return s.dispatch(ctx, ClearCart{})
}

// CreateOrder submits the cart as an order. The cart is cleared only when
// the backend reports success.
func (s *Session) CreateOrder(ctx context.Context, shipping catalog.ShippingInfo) (*catalog.OrderResult, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}

	res, err := s.orders.CreateOrder(ctx, BuildOrder(state, shipping))
	if err != nil {
		return nil, err
	}
	if res != nil && res.Success {
		if err := s.Clear(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}

// BuildOrder prices state into an order payload.
func BuildOrder(state State, shipping catalog.ShippingInfo) catalog.OrderRequest {
	lines := make([]catalog.OrderLine, 0, len(state.Items))
	for _, it := range state.Items {
		lines = append(lines, catalog.OrderLine{
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			Image:     it.Product.Image,
			Price:     it.Product.Price,
			ProductID: it.Product.ID,
		})
	}

	quote := pricing.Quote(state.Total)
	return catalog.OrderRequest{
		Items:         lines,
		ShippingInfo:  shipping,
		ItemsPrice:    quote.ItemsPrice,
		TaxPrice:      quote.TaxPrice,
		ShippingPrice: quote.ShippingPrice,
		TotalPrice:    quote.TotalPrice,
	}
}

func (s *Session) dispatch(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, action)
	return s.persist(ctx)
}

// synced reports whether changes go to the backend cart.
func (s *Session) synced() bool {
	return s.carts != nil && s.authenticated()
}

func (s *Session) persist(ctx context.Context) error {
	if s.synced() {
		if err := s.carts.SaveCart(ctx, s.state.Items); err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
		return nil
	}

	if len(s.state.Items) == 0 {
		return s.store.Remove(StorageKey)
	}
	raw, err := json.Marshal(s.state.Items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.store.Set(StorageKey, string(raw))
}
