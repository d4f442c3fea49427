package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

type productRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       wireMoney `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CategoryID  wireID    `json:"categoryId"`
}

func toProductRequest(in domain.ProductInput) productRequest {
	return productRequest{
		Name:        in.Name,
		Description: in.Description,
		Price:       wireMoney(in.PriceCents),
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  wireID(in.CategoryID),
	}
}

func (c *Client) CreateProduct(ctx context.Context, credential string, in domain.ProductInput) (domain.Product, error) {
	return c.saveProduct(ctx, request{method: http.MethodPost, path: "/admin/products", credential: credential, body: toProductRequest(in)})
}

func (c *Client) UpdateProduct(ctx context.Context, credential, id string, in domain.ProductInput) (domain.Product, error) {
	return c.saveProduct(ctx, request{method: http.MethodPut, path: idPath("/admin/products", id), credential: credential, body: toProductRequest(in)})
}

func (c *Client) DeleteProduct(ctx context.Context, credential, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/admin/products", id), credential: credential}, nil)
}

func (c *Client) saveProduct(ctx context.Context, req request) (domain.Product, error) {
	var out wireProduct
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Product{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) CreateCategory(ctx context.Context, credential, name string) (domain.Category, error) {
	return c.saveCategory(ctx, request{method: http.MethodPost, path: "/admin/categories", credential: credential, body: map[string]string{"name": name}})
}

func (c *Client) UpdateCategory(ctx context.Context, credential, id, name string) (domain.Category, error) {
	return c.saveCategory(ctx, request{method: http.MethodPut, path: idPath("/admin/categories", id), credential: credential, body: map[string]string{"name": name}})
}

func (c *Client) DeleteCategory(ctx context.Context, credential, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/admin/categories", id), credential: credential}, nil)
}

func (c *Client) saveCategory(ctx context.Context, req request) (domain.Category, error) {
	var out wireCategory
	if err := c.do(ctx, req, &out); err != nil {
		return domain.Category{}, err
	}
	return domain.Category{ID: string(out.ID), Name: out.Name}, nil
}

// AllBanners lists active and inactive banners for the admin console.
func (c *Client) AllBanners(ctx context.Context, credential string) ([]domain.HeroBanner, error) {
	return c.listBanners(ctx, request{method: http.MethodGet, path: "/admin/hero-banners", credential: credential})
}

func (c *Client) GetBanner(ctx context.Context, credential, id string) (domain.HeroBanner, error) {
	return c.saveBanner(ctx, request{method: http.MethodGet, path: idPath("/admin/hero-banners", id), credential: credential})
}

func (c *Client) CreateBanner(ctx context.Context, credential string, in domain.BannerInput) (domain.HeroBanner, error) {
	return c.saveBanner(ctx, request{method: http.MethodPost, path: "/admin/hero-banners", credential: credential, body: in})
}

func (c *Client) UpdateBanner(ctx context.Context, credential, id string, in domain.BannerInput) (domain.HeroBanner, error) {
	return c.saveBanner(ctx, request{method: http.MethodPut, path: idPath("/admin/hero-banners", id), credential: credential, body: in})
}

func (c *Client) DeleteBanner(ctx context.Context, credential, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/admin/hero-banners", id), credential: credential}, nil)
}

func (c *Client) saveBanner(ctx context.Context, req request) (domain.HeroBanner, error) {
	var out wireBanner
	if err := c.do(ctx, req, &out); err != nil {
		return domain.HeroBanner{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) AdminListOrders(ctx context.Context, credential string) ([]domain.Order, error) {
	return c.listOrders(ctx, request{method: http.MethodGet, path: "/admin/orders", credential: credential})
}

func (c *Client) AdminGetOrder(ctx context.Context, credential, id string) (domain.Order, error) {
	return c.getOrder(ctx, request{method: http.MethodGet, path: idPath("/admin/orders", id), credential: credential})
}

func (c *Client) UpdateOrderStatus(ctx context.Context, credential, id string, status domain.OrderStatus) (domain.Order, error) {
	return c.getOrder(ctx, request{
		method:     http.MethodPut,
		path:       idPath("/admin/orders", id) + "/status",
		credential: credential,
		body:       map[string]string{"status": string(status)},
	})
}
