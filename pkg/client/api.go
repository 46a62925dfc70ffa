package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront/pkg/catalog"
)

// User is an account as returned by the API.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Review is one review of a product.
type Review struct {
	ID      string  `json:"_id"`
	User    string  `json:"user"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// APIProduct is a product in the API's own shape.
type APIProduct struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Seller        string    `json:"seller"`
	Stock         int       `json:"stock"`
	Images        []string  `json:"images"`
	Ratings       float64   `json:"ratings"`
	NumOfReviews  int       `json:"numOfReviews"`
	Reviews       []Review  `json:"reviews"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToCatalog maps p to the client snapshot shape.
func (p APIProduct) ToCatalog() catalog.Product {
	var image string
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return catalog.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		Image:         image,
		Images:        images,
		Description:   p.Description,
		Stock:         p.Stock,
		InStock:       p.Stock > 0,
		Rating:        p.Ratings,
		Reviews:       p.NumOfReviews,
	}
}

// ProductQuery filters a catalog listing. Zero values are not sent.
type ProductQuery struct {
	Keyword   string
	Category  string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	Page      int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinPrice > 0 {
		v.Set("price[gte]", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		v.Set("price[lte]", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.MinRating > 0 {
		v.Set("ratings[gte]", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Products      []catalog.Product
	ProductsCount int64
	ResPerPage    int
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Register creates an account and stores its token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var res authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/register", nil, body, &res); err != nil {
		return nil, err
	}
	if err := c.setToken(res.Token); err != nil {
		return nil, err
	}
	return res.User, nil
}

// Login authenticates and stores the token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var res authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, body, &res); err != nil {
		return nil, err
	}
	if err := c.setToken(res.Token); err != nil {
		return nil, err
	}
	return res.User, nil
}

// Logout ends the server session and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/users/logout", nil, nil, nil)
	if rmErr := c.store.Remove(TokenKey); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var res struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// GetProducts lists the catalog.
func (c *Client) GetProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var res struct {
		ProductsCount int64        `json:"productsCount"`
		ResPerPage    int          `json:"resPerPage"`
		Products      []APIProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products", q.values(), nil, &res); err != nil {
		return nil, err
	}

	page := &ProductPage{
		Products:      make([]catalog.Product, 0, len(res.Products)),
		ProductsCount: res.ProductsCount,
		ResPerPage:    res.ResPerPage,
	}
	for _, p := range res.Products {
		page.Products = append(page.Products, p.ToCatalog())
	}
	return page, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var res struct {
		Product APIProduct `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &res); err != nil {
		return nil, err
	}
	p := res.Product.ToCatalog()
	return &p, nil
}

// CreateReview adds or edits the caller's review of a product.
func (c *Client) CreateReview(ctx context.Context, productID string, rating float64, comment string) error {
	body := map[string]any{"rating": rating, "comment": comment}
	return c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(productID)+"/review", nil, body, nil)
}

// GetProductReviews lists the reviews of a product.
func (c *Client) GetProductReviews(ctx context.Context, productID string) ([]Review, error) {
	var res struct {
		Reviews []Review `json:"reviews"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID)+"/reviews", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Reviews, nil
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, productID, reviewID string) error {
	q := url.Values{"productId": {productID}, "id": {reviewID}}
	return c.do(ctx, http.MethodDelete, "/products/reviews", q, nil, nil)
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.OrderResult, error) {
	var res catalog.OrderResult
	if err := c.do(ctx, http.MethodPost, "/orders/new", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MyOrders lists the caller's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]catalog.Order, error) {
	var res struct {
		Orders []catalog.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/me", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}

type cartPayload struct {
	Items []catalog.CartItem `json:"items"`
}

// GetCart returns the caller's backend cart.
func (c *Client) GetCart(ctx context.Context) ([]catalog.CartItem, error) {
	var res cartPayload
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &res); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []catalog.CartItem{}
	}
	return res.Items, nil
}

// SaveCart replaces the caller's backend cart.
func (c *Client) SaveCart(ctx context.Context, items []catalog.CartItem) error {
	if items == nil {
		items = []catalog.CartItem{}
	}
	return c.do(ctx, http.MethodPut, "/cart", nil, cartPayload{Items: items}, nil)
}
