// Package catalog defines the product snapshot, cart line and order shapes
// that travel between the storefront client and the server API.
package catalog

import "time"

// Product is the denormalized product snapshot held by clients.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Category      string   `json:"category"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Description   string   `json:"description"`
	Stock         int      `json:"stock"`
	InStock       bool     `json:"inStock"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
}

// CartItem is one product line in a cart.
type CartItem struct {
	Product  Product `json:"product" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// OrderLine is a product snapshot taken when an order is placed.
type OrderLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product"`
}

// ShippingInfo is the delivery address of an order.
type ShippingInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PhoneNo    string `json:"phoneNo"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderRequest is the payload of POST /orders/new.
type OrderRequest struct {
	Items         []OrderLine  `json:"orderItems"`
	ShippingInfo  ShippingInfo `json:"shippingInfo"`
	ItemsPrice    float64      `json:"itemsPrice"`
	TaxPrice      float64      `json:"taxPrice"`
	ShippingPrice float64      `json:"shippingPrice"`
	TotalPrice    float64      `json:"totalPrice"`
}

// Order is an order as returned by the API.
type Order struct {
	ID            string       `json:"_id"`
	Items         []OrderLine  `json:"orderItems"`
	ShippingInfo  ShippingInfo `json:"shippingInfo"`
	ItemsPrice    float64      `json:"itemsPrice"`
	TaxPrice      float64      `json:"taxPrice"`
	ShippingPrice float64      `json:"shippingPrice"`
	TotalPrice    float64      `json:"totalPrice"`
	Status        string       `json:"orderStatus"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// OrderResult is the response to an order submission.
type OrderResult struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order,omitempty"`
}
