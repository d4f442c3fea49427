package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

type productRequest struct {
	Name        string      `json:"name" form:"name"`
	Description string      `json:"description" form:"description"`
	Price       json.Number `json:"price" form:"price"`
	Stock       int         `json:"stock" form:"stock"`
	ImageURL    string      `json:"imageUrl" form:"imageUrl"`
	CategoryID  string      `json:"categoryId" form:"categoryId"`
}

func (r productRequest) toInput() (domain.ProductInput, error) {
	in := domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
	}
	if r.Price != "" {
		cents, err := parseCents(r.Price.String())
		if err != nil {
			return in, err
		}
		in.PriceCents = cents
	}
	return in, nil
}

type categoryRequest struct {
	Name string `json:"name" form:"name"`
}

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

func badRequest(c *gin.Context, msg string) {
	respond(c, http.StatusBadRequest, &notice{Level: noticeError, Message: msg}, nil)
}

func (h *handlers) adminDashboard(c *gin.Context) {
	stats, err := h.deps.OrderSvc.Dashboard(c.Request.Context(), credential(c))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to load dashboard"), nil)
		return
	}
	respond(c, http.StatusOK, nil, gin.H{
		"totalProducts": stats.ProductCount,
		"totalOrders":   stats.OrderCount,
		"recentOrders":  toOrderViews(stats.RecentOrders),
	})
}

func (h *handlers) adminProducts(c *gin.Context) {
	q, err := productQueryFromRequest(c)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Invalid filters"), nil)
		return
	}
	page, err := h.deps.ProductSvc.List(c.Request.Context(), q)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch products"), nil)
		return
	}
	respond(c, http.StatusOK, nil, h.toProductPageView(*page))
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid product")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respond(c, statusFor(err), failure(err, "Invalid product"), nil)
		return
	}
	p, err := h.deps.ProductSvc.Create(c.Request.Context(), credential(c), in)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to save product"), nil)
		return
	}
	respond(c, http.StatusCreated, success("Product created successfully"), h.toProductView(*p, true))
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid product")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respond(c, statusFor(err), failure(err, "Invalid product"), nil)
		return
	}
	p, err := h.deps.ProductSvc.Update(c.Request.Context(), credential(c), c.Param("id"), in)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to save product"), nil)
		return
	}
	respond(c, http.StatusOK, success("Product updated successfully"), h.toProductView(*p, true))
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.ProductSvc.Delete(c.Request.Context(), credential(c), c.Param("id")); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to delete product"), nil)
		return
	}
	respond(c, http.StatusOK, success("Product deleted successfully"), nil)
}

func (h *handlers) adminCategories(c *gin.Context) {
	categories, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch categories"), []domain.Category{})
		return
	}
	respond(c, http.StatusOK, nil, categories)
}

func (h *handlers) adminCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid category")
		return
	}
	cat, err := h.deps.CategorySvc.Create(c.Request.Context(), credential(c), req.Name)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to save category"), nil)
		return
	}
	respond(c, http.StatusCreated, success("Category created successfully"), cat)
}

func (h *handlers) adminUpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid category")
		return
	}
	cat, err := h.deps.CategorySvc.Update(c.Request.Context(), credential(c), c.Param("id"), req.Name)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to save category"), nil)
		return
	}
	respond(c, http.StatusOK, success("Category updated successfully"), cat)
}

func (h *handlers) adminDeleteCategory(c *gin.Context) {
	if err := h.deps.CategorySvc.Delete(c.Request.Context(), credential(c), c.Param("id")); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to delete category"), nil)
		return
	}
	respond(c, http.StatusOK, success("Category deleted successfully"), nil)
}

func (h *handlers) adminBanners(c *gin.Context) {
	banners, err := h.deps.BannerSvc.All(c.Request.Context(), credential(c))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch banners"), []bannerView{})
		return
	}
	respond(c, http.StatusOK, nil, h.toBannerViews(banners))
}

func (h *handlers) adminBanner(c *gin.Context) {
	b, err := h.deps.BannerSvc.Get(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch banner"), nil)
		return
	}
	respond(c, http.StatusOK, nil, h.toBannerViews([]domain.HeroBanner{*b})[0])
}

func (h *handlers) adminCreateBanner(c *gin.Context) {
	var in domain.BannerInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "Invalid banner")
		return
	}
	b, err := h.deps.BannerSvc.Create(c.Request.Context(), credential(c), in)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to save banner"), nil)
		return
	}
	respond(c, http.StatusCreated, success("Banner created successfully"), h.toBannerViews([]domain.HeroBanner{*b})[0])
}

func (h *handlers) adminUpdateBanner(c *gin.Context) {
	var in domain.BannerInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "Invalid banner")
		return
	}
	b, err := h.deps.BannerSvc.Update(c.Request.Context(), credential(c), c.Param("id"), in)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to save banner"), nil)
		return
	}
	respond(c, http.StatusOK, success("Banner updated successfully"), h.toBannerViews([]domain.HeroBanner{*b})[0])
}

func (h *handlers) adminDeleteBanner(c *gin.Context) {
	if err := h.deps.BannerSvc.Delete(c.Request.Context(), credential(c), c.Param("id")); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to delete banner"), nil)
		return
	}
	respond(c, http.StatusOK, success("Banner deleted successfully"), nil)
}

func (h *handlers) adminOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.AdminList(c.Request.Context(), credential(c))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch orders"), []orderView{})
		return
	}
	respond(c, http.StatusOK, nil, toOrderViews(orders))
}

func (h *handlers) adminOrder(c *gin.Context) {
	order, err := h.deps.OrderSvc.AdminGet(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch order"), nil)
		return
	}
	respond(c, http.StatusOK, nil, toOrderView(*order))
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid status")
		return
	}
	order, err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), credential(c), c.Param("id"), req.Status)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to update order status"), nil)
		return
	}
	respond(c, http.StatusOK, success("Order status updated successfully"), toOrderView(*order))
}
