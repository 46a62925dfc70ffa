package cart

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"storefront/pkg/catalog"
	"storefront/pkg/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type MockCartAPI struct {
	mock.Mock
}

func (m *MockCartAPI) GetCart(ctx context.Context) ([]catalog.CartItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]catalog.CartItem)
	return items, args.Error(1)
}

func (m *MockCartAPI) SaveCart(ctx context.Context, items []catalog.CartItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.OrderResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*catalog.OrderResult)
	return res, args.Error(1)
}

func storedItems(t *testing.T, store storage.Storage) ([]catalog.CartItem, bool) {
	t.Helper()
	raw, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	if !ok {
		return nil, false
	}
	var items []catalog.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items, true
}

func TestSession_AnonymousPersistsToStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s := NewSession(store, nil, nil, nil)

	require.NoError(t, s.AddToCart(ctx, keyboard))
	require.NoError(t, s.AddToCart(ctx, keyboard))

	items, ok := storedItems(t, store)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	require.NoError(t, s.Clear(ctx))
	_, ok = storedItems(t, store)
	assert.False(t, ok, "empty cart removes the stored key")
}

func TestSession_UpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	s := NewSession(storage.NewMemory(), nil, nil, nil)

	require.NoError(t, s.AddToCart(ctx, keyboard))
	require.NoError(t, s.AddToCart(ctx, mouse))
	require.NoError(t, s.UpdateQuantity(ctx, "p1", 0))

	state := s.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p2", state.Items[0].Product.ID)
	assert.Equal(t, 25.5, state.Total)
}

func TestSession_LoadFromStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	first := NewSession(store, nil, nil, nil)
	require.NoError(t, first.AddToCart(ctx, mouse))
	require.NoError(t, first.UpdateQuantity(ctx, "p2", 3))

	second := NewSession(store, nil, nil, nil)
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, 3, second.State().ItemCount)
	assert.Equal(t, 76.5, second.State().Total)
}

func TestSession_LoadDiscardsCorruptCart(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(StorageKey, "{broken"))

	s := NewSession(store, nil, nil, nil)
	require.NoError(t, s.Load(context.Background()))

	assert.Empty(t, s.State().Items)
	_, ok := storedItems(t, store)
	assert.False(t, ok)
}

func TestSession_AuthenticatedUsesBackend(t *testing.T) {
	ctx := context.Background()
	api := new(MockCartAPI)
	store := storage.NewMemory()
	s := NewSession(store, api, nil, func() bool { return true })

	api.On("GetCart", ctx).Return([]catalog.CartItem{{Product: mouse, Quantity: 2}}, nil).Once()
	api.On("SaveCart", ctx, []catalog.CartItem{{Product: mouse, Quantity: 2}, {Product: keyboard, Quantity: 1}}).Return(nil).Once()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.AddToCart(ctx, keyboard))

	assert.Equal(t, 3, s.State().ItemCount)
	_, ok := storedItems(t, store)
	assert.False(t, ok, "authenticated carts are not written locally")
	api.AssertExpectations(t)
}

func TestSession_AuthenticatedSaveError(t *testing.T) {
	ctx := context.Background()
	api := new(MockCartAPI)
	s := NewSession(storage.NewMemory(), api, nil, func() bool { return true })

	api.On("SaveCart", ctx, mock.Anything).Return(errors.New("offline")).Once()

	err := s.AddToCart(ctx, keyboard)
	assert.Error(t, err)
	assert.Equal(t, 1, s.State().ItemCount, "local state still reflects the change")
}

func TestBuildOrder_Pricing(t *testing.T) {
	tests := []struct {
		name     string
		items    []catalog.CartItem
		tax      float64
		shipping float64
		total    float64
	}{
		{"below threshold", []catalog.CartItem{{Product: mouse, Quantity: 2}}, 5.1, 10, 66.1},
		{"at threshold", []catalog.CartItem{{Product: catalog.Product{ID: "x", Price: 50}, Quantity: 2}}, 10, 10, 120},
		{"above threshold", []catalog.CartItem{{Product: keyboard, Quantity: 2}}, 15, 0, 165},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Reduce(State{}, LoadCart{Items: tt.items})
			req := BuildOrder(state, catalog.ShippingInfo{City: "Jakarta"})

			assert.Equal(t, state.Total, req.ItemsPrice)
			assert.Equal(t, tt.tax, req.TaxPrice)
			assert.Equal(t, tt.shipping, req.ShippingPrice)
			assert.Equal(t, tt.total, req.TotalPrice)
			assert.Equal(t, "Jakarta", req.ShippingInfo.City)
			require.Len(t, req.Items, 1)
			assert.Equal(t, tt.items[0].Product.ID, req.Items[0].ProductID)
			assert.Equal(t, tt.items[0].Quantity, req.Items[0].Quantity)
		})
	}
}

func TestSession_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears the cart", func(t *testing.T) {
		orders := new(MockOrderAPI)
		store := storage.NewMemory()
		s := NewSession(store, nil, orders, nil)
		require.NoError(t, s.AddToCart(ctx, keyboard))

		expected := BuildOrder(s.State(), catalog.ShippingInfo{})
		orders.On("CreateOrder", ctx, expected).Return(&catalog.OrderResult{Success: true, Order: &catalog.Order{ID: "o1"}}, nil).Once()

		res, err := s.CreateOrder(ctx, catalog.ShippingInfo{})
		require.NoError(t, err)
		assert.Equal(t, "o1", res.Order.ID)
		assert.Empty(t, s.State().Items)
		_, ok := storedItems(t, store)
		assert.False(t, ok)
		orders.AssertExpectations(t)
	})

	t.Run("unsuccessful response keeps the cart", func(t *testing.T) {
		orders := new(MockOrderAPI)
		s := NewSession(storage.NewMemory(), nil, orders, nil)
		require.NoError(t, s.AddToCart(ctx, keyboard))

		orders.On("CreateOrder", ctx, mock.Anything).Return(&catalog.OrderResult{Success: false}, nil).Once()

		res, err := s.CreateOrder(ctx, catalog.ShippingInfo{})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Len(t, s.State().Items, 1)
	})

	t.Run("error keeps the cart", func(t *testing.T) {
		orders := new(MockOrderAPI)
		s := NewSession(storage.NewMemory(), nil, orders, nil)
		require.NoError(t, s.AddToCart(ctx, keyboard))

		orders.On("CreateOrder", ctx, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := s.CreateOrder(ctx, catalog.ShippingInfo{})
		assert.Error(t, err)
		assert.Len(t, s.State().Items, 1)
	})

	t.Run("empty cart", func(t *testing.T) {
		s := NewSession(storage.NewMemory(), nil, new(MockOrderAPI), nil)
		_, err := s.CreateOrder(ctx, catalog.ShippingInfo{})
		assert.ErrorIs(t, err, ErrEmptyCart)
	})
}

func TestSession_AuthenticatedWithoutBackendUsesStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s := NewSession(store, nil, nil, func() bool { return true })

	require.NoError(t, s.AddToCart(ctx, keyboard))
	items, ok := storedItems(t, store)
	require.True(t, ok)
	require.Len(t, items, 1)

	reloaded := NewSession(store, nil, nil, func() bool { return true })
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 1, reloaded.State().ItemCount)
}
