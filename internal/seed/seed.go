package seed

import (
	"context"
	"fmt"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/service/category"
)

// Categories creates and lists catalog categories.
type Categories interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, credential, name string) (*domain.Category, error)
}

// Products creates products and searches the public listing.
type Products interface {
	List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error)
}

// Banners creates and lists hero banners.
type Banners interface {
	All(ctx context.Context, credential string) ([]domain.HeroBanner, error)
	Create(ctx context.Context, credential string, in domain.BannerInput) (*domain.HeroBanner, error)
}

// Deps are the admin services the seed writes through.
type Deps struct {
	Categories Categories
	Products   Products
	Banners    Banners
	Logger     *log.Logger
}

// Result counts what Apply created; existing entries are skipped.
type Result struct {
	Categories int
	Products   int
	Banners    int
}

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	ImageURL    string
	Category    string
}

var demoCategories = []string{"Kitchen", "Apparel", "Stationery"}

var demoProducts = []productSeed{
	{
		Name:        "Demo Mug",
		Description: "Ceramic mug, **dishwasher safe**.",
		PriceCents:  1299,
		Stock:       25,
		ImageURL:    "https://picsum.photos/seed/mug/600/400",
		Category:    "Kitchen",
	},
	{
		Name:        "Demo T-Shirt",
		Description: "Soft cotton tee.\n\n- unisex fit\n- machine washable",
		PriceCents:  1999,
		Stock:       40,
		ImageURL:    "https://picsum.photos/seed/tee/600/400",
		Category:    "Apparel",
	},
	{
		Name:        "Demo Notebook",
		Description: "A5 dotted notebook with 120 pages.",
		PriceCents:  899,
		Stock:       3,
		ImageURL:    "https://picsum.photos/seed/notebook/600/400",
		Category:    "Stationery",
	},
}

var demoBanners = []domain.BannerInput{
	{ImageURL: "https://picsum.photos/seed/hero-1/1600/500", Title: "New season", Subtitle: "Fresh picks for every room", DisplayOrder: 0, Active: true},
	{ImageURL: "https://picsum.photos/seed/hero-2/1600/500", Title: "Free delivery", Subtitle: "On every order this week", DisplayOrder: 1, Active: true},
}

// Apply creates demo categories, products and banners through the admin API
// using credential. It is idempotent: entries are matched by name (banners by
// image URL) and existing ones are left untouched.
func Apply(ctx context.Context, deps Deps, credential string) (Result, error) {
	var res Result

	categories, err := deps.Categories.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	for _, name := range demoCategories {
		if _, ok := category.FindByName(categories, name); ok {
			continue
		}
		created, err := deps.Categories.Create(ctx, credential, name)
		if err != nil {
			return res, fmt.Errorf("create category %s: %w", name, err)
		}
		categories = append(categories, *created)
		res.Categories++
		deps.logf("created category %s", name)
	}

	for _, p := range demoProducts {
		exists, err := productExists(ctx, deps.Products, p.Name)
		if err != nil {
			return res, fmt.Errorf("lookup product %s: %w", p.Name, err)
		}
		if exists {
			continue
		}
		cat, ok := category.FindByName(categories, p.Category)
		if !ok {
			return res, fmt.Errorf("product %s: category %s missing", p.Name, p.Category)
		}
		_, err = deps.Products.Create(ctx, credential, domain.ProductInput{
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  p.PriceCents,
			Stock:       p.Stock,
			ImageURL:    p.ImageURL,
			CategoryID:  cat.ID,
		})
		if err != nil {
			return res, fmt.Errorf("create product %s: %w", p.Name, err)
		}
		res.Products++
		deps.logf("created product %s", p.Name)
	}

	banners, err := deps.Banners.All(ctx, credential)
	if err != nil {
		return res, fmt.Errorf("list banners: %w", err)
	}
	for _, b := range demoBanners {
		if bannerExists(banners, b.ImageURL) {
			continue
		}
		if _, err := deps.Banners.Create(ctx, credential, b); err != nil {
			return res, fmt.Errorf("create banner %s: %w", b.Title, err)
		}
		res.Banners++
		deps.logf("created banner %s", b.Title)
	}

	return res, nil
}

func productExists(ctx context.Context, products Products, name string) (bool, error) {
	page, err := products.List(ctx, domain.ProductQuery{Search: name, Page: 0, Size: 50})
	if err != nil {
		return false, err
	}
	for _, p := range page.Items {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func bannerExists(banners []domain.HeroBanner, imageURL string) bool {
	for _, b := range banners {
		if b.ImageURL == imageURL {
			return true
		}
	}
	return false
}

func (d Deps) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
