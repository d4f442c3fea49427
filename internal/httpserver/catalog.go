package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func (h *handlers) home(c *gin.Context) {
	banners, err := h.deps.BannerSvc.Active(c.Request.Context())
	if err != nil {
		h.logger.Printf("active banners: %v", err)
		respond(c, http.StatusOK, nil, gin.H{"banners": []bannerView{}})
		return
	}
	respond(c, http.StatusOK, nil, gin.H{"banners": h.toBannerViews(banners)})
}

// productQueryFromRequest reads search, category, minPrice, maxPrice, page and size.
func productQueryFromRequest(c *gin.Context) (domain.ProductQuery, error) {
	q := domain.ProductQuery{
		Search:     c.Query("search"),
		CategoryID: c.Query("category"),
	}
	if v := c.Query("minPrice"); v != "" {
		cents, err := parseCents(v)
		if err != nil {
			return q, err
		}
		q.MinPriceCents = &cents
	}
	if v := c.Query("maxPrice"); v != "" {
		cents, err := parseCents(v)
		if err != nil {
			return q, err
		}
		q.MaxPriceCents = &cents
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, domain.Invalid("page must be a number")
		}
		q.Page = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, domain.Invalid("size must be a number")
		}
		q.Size = n
	}
	return q, nil
}

func (h *handlers) listProducts(c *gin.Context) {
	ctx := c.Request.Context()
	categories, err := h.deps.CategorySvc.List(ctx)
	if err != nil {
		h.logger.Printf("list categories: %v", err)
		categories = []domain.Category{}
	}

	q, err := productQueryFromRequest(c)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Invalid filters"), gin.H{"categories": categories})
		return
	}
	page, err := h.deps.ProductSvc.List(ctx, q)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch products"), gin.H{"categories": categories})
		return
	}
	respond(c, http.StatusOK, nil, gin.H{
		"categories": categories,
		"products":   h.toProductPageView(*page),
	})
}

func (h *handlers) productDetail(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch product"), nil)
		return
	}
	respond(c, http.StatusOK, nil, h.toProductView(*p, true))
}
