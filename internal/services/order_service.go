package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/pricing"
	"storefront/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	PublishOrderEvent(event rabbitmq.OrderEvent) error
}

// OrderInput is the payload for placing an order. Amounts sent by the
// client are ignored; the server prices the order itself.
type OrderInput struct {
	Items        []models.OrderItem  `json:"orderItems" validate:"required,min=1,dive"`
	ShippingInfo models.ShippingInfo `json:"shippingInfo"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
	metrics     *metrics.Metrics
	validate    *validator.Validate
}

// NewOrderService creates a new OrderService. publisher and m may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher, m *metrics.Metrics) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		metrics:     m,
		validate:    models.NewValidator(),
	}
}

// CreateOrder checks every line against the catalog, prices the order and stores it.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input OrderInput) (*models.Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	lines := make([]pricing.Line, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.InvalidInput(fmt.Sprintf(
				"Insufficient stock for product %s (requested: %d, available: %d)",
				product.Name, item.Quantity, product.Stock))
		}

		image := item.Image
		if len(product.Images) > 0 {
			image = product.Images[0].Data
		}
		items = append(items, models.OrderItem{
			Name:      product.Name,
			Quantity:  item.Quantity,
			Image:     image,
			Price:     product.Price,
			ProductID: product.ID,
		})
		lines = append(lines, pricing.Line{Price: product.Price, Quantity: item.Quantity})
	}

	quote := pricing.Quote(pricing.Subtotal(lines))
	order := &models.Order{
		UserID:        userID,
		Items:         items,
		ShippingInfo:  input.ShippingInfo,
		ItemsPrice:    quote.ItemsPrice,
		TaxPrice:      quote.TaxPrice,
		ShippingPrice: quote.ShippingPrice,
		TotalPrice:    quote.TotalPrice,
		Status:        models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.metrics.OrderCreated(order.TotalPrice)
	log.Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Float64("total_price", order.TotalPrice).
		Msg("order created")
	s.publish(rabbitmq.EventOrderCreated, order)
	return order, nil
}

// publish is best effort: a broker failure never fails the request.
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.publisher == nil {
		log.Debug().Str("order_id", order.ID).Msg("no event publisher configured, skipping")
		return
	}
	itemCount := 0
	for _, it := range order.Items {
		itemCount += it.Quantity
	}
	event := rabbitmq.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		ItemCount:  itemCount,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Str("event", eventType).Msg("failed to publish order event")
	}
}

// GetAllOrders retrieves all orders and the sum of their totals.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, float64, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, o := range orders {
		total += o.TotalPrice
	}
	return orders, pricing.Round(total), nil
}

// GetMyOrders retrieves the orders placed by userID.
func (s *OrderService) GetMyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(ctx, userID)
}

// GetOrderByID retrieves an order visible to actor: its owner or an admin.
func (s *OrderService) GetOrderByID(ctx context.Context, id string, actor *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("You are not allowed to view this order")
	}
	return order, nil
}

// UpdateOrderStatus updates the status of an existing order. Delivered
// orders are final.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	if !models.IsValidOrderStatus(status) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid order status: %s", status))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == models.OrderStatusDelivered {
		return apperrors.InvalidInput("You have already delivered this order")
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	order.Status = status
	log.Info().Str("order_id", id).Str("status", status).Msg("order status updated")
	s.publish(rabbitmq.EventOrderStatusUpdated, order)
	return nil
}

// DeleteOrder deletes an order by its ID.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("order_id", id).Msg("order deleted")
	return nil
}
