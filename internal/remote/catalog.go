package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		params.Set("category", q.CategoryID)
	}
	if q.MinPriceCents != nil {
		params.Set("minPrice", centsParam(*q.MinPriceCents))
	}
	if q.MaxPriceCents != nil {
		params.Set("maxPrice", centsParam(*q.MaxPriceCents))
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))

	var out wireProductPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: params}, &out); err != nil {
		return domain.ProductPage{}, err
	}
	page := domain.ProductPage{
		Items:         make([]domain.Product, 0, len(out.Content)),
		TotalElements: out.TotalElements,
		TotalPages:    out.TotalPages,
		Size:          out.Size,
		Number:        out.Number,
	}
	for _, p := range out.Content {
		page.Items = append(page.Items, p.toDomain())
	}
	return page, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out wireProduct
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/products", id)}, &out); err != nil {
		return domain.Product{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []wireCategory
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	cats := make([]domain.Category, 0, len(out))
	for _, w := range out {
		cats = append(cats, domain.Category{ID: string(w.ID), Name: w.Name})
	}
	return cats, nil
}

// ActiveBanners lists the banners shown on the home view.
func (c *Client) ActiveBanners(ctx context.Context) ([]domain.HeroBanner, error) {
	return c.listBanners(ctx, request{method: http.MethodGet, path: "/hero-banners"})
}

func (c *Client) listBanners(ctx context.Context, req request) ([]domain.HeroBanner, error) {
	var out []wireBanner
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	banners := make([]domain.HeroBanner, 0, len(out))
	for _, w := range out {
		banners = append(banners, w.toDomain())
	}
	return banners, nil
}

func centsParam(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}
