package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog and product reviews.
type ProductHandler struct {
	service *services.ProductService
	reviews *services.ReviewService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, reviews *services.ReviewService) *ProductHandler {
	return &ProductHandler{
		service: service,
		reviews: reviews,
	}
}

// RegisterRoutes registers the product routes. auth must authenticate the user.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")

	admin := productRoutes.Group("/admin", auth, middleware.AuthorizeRoles(models.RoleAdmin))
	admin.Post("/new", h.HandleCreateProduct)
	admin.Put("/:id", h.HandleUpdateProduct)
	admin.Delete("/:id", h.HandleDeleteProduct)

	productRoutes.Delete("/reviews", auth, h.HandleDeleteReview)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/reviews", h.HandleGetProductReviews)
	productRoutes.Put("/:id/review", auth, h.HandleCreateReview)
}

// productResponse is a product whose images are flattened to their data URLs.
type productResponse struct {
	models.Product
	Images []string `json:"images"`
}

func toProductResponse(p models.Product) productResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.Data)
	}
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	return productResponse{Product: p, Images: images}
}

// HandleGetProducts lists the catalog with keyword, category, price and
// rating filters.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Keyword:   c.Query("keyword"),
		Category:  models.Category(c.Query("category")),
		MinPrice:  c.QueryFloat("price[gte]", 0),
		MaxPrice:  c.QueryFloat("price[lte]", 0),
		MinRating: c.QueryFloat("ratings[gte]", 0),
		Page:      c.QueryInt("page", 1),
	}

	page, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}

	products := make([]productResponse, 0, len(page.Products))
	for _, p := range page.Products {
		products = append(products, toProductResponse(p))
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"productsCount": page.ProductsCount,
		"resPerPage":    page.ResPerPage,
		"products":      products,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": toProductResponse(*product),
	})
}

// HandleCreateProduct creates a product owned by the calling admin.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), input, middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"product": toProductResponse(*product),
	})
}

// HandleUpdateProduct edits the catalog fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": toProductResponse(*product),
	})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

type reviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// HandleCreateReview adds or edits the caller's review of a product.
func (h *ProductHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req reviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if req.Rating == nil {
		return apperrors.InvalidInput("Please provide a rating")
	}

	user := middleware.CurrentUser(c)
	if _, err := h.reviews.SubmitOrUpdateReview(c.UserContext(), c.Params("id"), user, *req.Rating, req.Comment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetProductReviews lists the reviews of a product.
func (h *ProductHandler) HandleGetProductReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListReviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"reviews": reviews,
	})
}

// HandleDeleteReview removes a review; productId and id come from the query string.
func (h *ProductHandler) HandleDeleteReview(c *fiber.Ctx) error {
	productID := c.Query("productId")
	reviewID := c.Query("id")
	if productID == "" || reviewID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "productId and id are required")
	}

	if err := h.reviews.DeleteReview(c.UserContext(), productID, reviewID, middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
