package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes. Every order route needs auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)

	admin := orderRoutes.Group("/admin", middleware.AuthorizeRoles(models.RoleAdmin))
	admin.Get("/orders", h.HandleGetOrders)
	admin.Put("/order/:id", h.HandleUpdateOrderStatus)
	admin.Delete("/order/:id", h.HandleDeleteOrder)

	orderRoutes.Post("/new", h.HandleCreateOrder)
	orderRoutes.Get("/me", h.HandleMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleCreateOrder places an order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input services.OrderInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.CurrentUser(c).ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleMyOrders lists the authenticated user's orders.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetMyOrders(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
	})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleGetOrders retrieves all orders with their combined amount.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, total, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"totalAmount": total,
		"orders":      orders,
	})
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &updateData); err != nil {
		return err
	}
	if updateData.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Status is required for order status update.")
	}

	if err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), updateData.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleDeleteOrder deletes an order.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
