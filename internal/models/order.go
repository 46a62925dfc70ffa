package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is a snapshot of a product line at the time of order.
type OrderItem struct {
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" validate:"gte=0"`
	ProductID string  `json:"product" validate:"required"`
}

// ShippingInfo is where an order is delivered.
type ShippingInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PhoneNo    string `json:"phoneNo"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order represents a customer order.
type Order struct {
	ID            string         `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string         `json:"user" gorm:"type:varchar(36);index"`
	Items         []OrderItem    `json:"orderItems" gorm:"serializer:json;type:text" validate:"required,min=1,dive"`
	ShippingInfo  ShippingInfo   `json:"shippingInfo" gorm:"serializer:json;type:text"`
	ItemsPrice    float64        `json:"itemsPrice"`
	TaxPrice      float64        `json:"taxPrice"`
	ShippingPrice float64        `json:"shippingPrice"`
	TotalPrice    float64        `json:"totalPrice"`
	Status        string         `json:"orderStatus" gorm:"type:varchar(16);default:pending"`
	DeliveredAt   *time.Time     `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
