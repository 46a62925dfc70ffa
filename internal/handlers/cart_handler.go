package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

// CartHandler serves the cart of authenticated users.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Put("/", h.HandleSaveCart)
}

type cartRequest struct {
	Items []catalog.CartItem `json:"items"`
}

// HandleGetCart returns the caller's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
	})
}

// HandleSaveCart replaces the caller's cart.
func (h *CartHandler) HandleSaveCart(c *fiber.Ctx) error {
	var req cartRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.SaveCart(c.UserContext(), middleware.CurrentUser(c).ID, req.Items); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
