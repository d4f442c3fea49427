package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/obs"
	"storefront/internal/render"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/gate"
	ordersvc "storefront/internal/service/order"
	"storefront/internal/service/session"
)

type productService interface {
	List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, credential, id string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, credential, id string) error
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, credential, name string) (*domain.Category, error)
	Update(ctx context.Context, credential, id, name string) (*domain.Category, error)
	Delete(ctx context.Context, credential, id string) error
}

type bannerService interface {
	Active(ctx context.Context) ([]domain.HeroBanner, error)
	All(ctx context.Context, credential string) ([]domain.HeroBanner, error)
	Get(ctx context.Context, credential, id string) (*domain.HeroBanner, error)
	Create(ctx context.Context, credential string, in domain.BannerInput) (*domain.HeroBanner, error)
	Update(ctx context.Context, credential, id string, in domain.BannerInput) (*domain.HeroBanner, error)
	Delete(ctx context.Context, credential, id string) error
}

type cartService interface {
	Fetch(ctx context.Context, credential string, m *cartsvc.Model) error
	Add(ctx context.Context, credential string, m *cartsvc.Model, product domain.ProductSnapshot, quantity int) error
	UpdateQuantity(ctx context.Context, credential string, m *cartsvc.Model, lineID string, quantity int) error
	Remove(ctx context.Context, credential string, m *cartsvc.Model, lineID string) error
}

type orderService interface {
	Checkout(ctx context.Context, credential string, cart ordersvc.Cart, in domain.CheckoutInput) (*domain.Order, error)
	Mine(ctx context.Context, credential string) ([]domain.Order, error)
	Get(ctx context.Context, credential, id string) (*domain.Order, error)
	AdminList(ctx context.Context, credential string) ([]domain.Order, error)
	AdminGet(ctx context.Context, credential, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, credential, id, status string) (*domain.Order, error)
	Dashboard(ctx context.Context, credential string) (*ordersvc.Stats, error)
}

// Deps carries everything the router needs.
type Deps struct {
	Auth     session.Authenticator
	Verifier gate.IdentityVerifier
	Sessions sessionrepo.Repository
	Carts    *cartsvc.Registry

	CartSvc     cartService
	ProductSvc  productService
	CategorySvc categoryService
	BannerSvc   bannerService
	OrderSvc    orderService

	Renderer    *render.Renderer
	Metrics     *obs.Metrics
	ReadyChecks []ReadyCheck

	CookieSecure       bool
	CORSOrigins        []string
	LoginRatePerMinute int
}

type handlers struct {
	logger   *log.Logger
	deps     Deps
	gate     *gate.Gate
	limiter  *attemptLimiter
	renderer *render.Renderer
}

// buildRouter wires routes for the storefront BFF.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Auth == nil || deps.Verifier == nil || deps.Sessions == nil {
		return nil, errors.New("auth, verifier and session storage are required")
	}
	if deps.CartSvc == nil || deps.ProductSvc == nil || deps.CategorySvc == nil || deps.BannerSvc == nil || deps.OrderSvc == nil {
		return nil, errors.New("all services are required")
	}
	if deps.Carts == nil {
		deps.Carts = cartsvc.NewRegistry(0)
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.New()
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Instrument())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyChecks))

	h := &handlers{
		logger:   logger,
		deps:     deps,
		gate:     gate.New(deps.Verifier, deps.Metrics, logger),
		limiter:  newAttemptLimiter(deps.LoginRatePerMinute),
		renderer: renderer,
	}

	views := router.Group("/")
	views.Use(browserSessionMiddleware(deps.CookieSecure), h.sessionMiddleware())

	views.GET("/login", h.loginPage)
	views.POST("/login", h.throttle(), h.login)
	views.GET("/register", h.registerPage)
	views.POST("/register", h.throttle(), h.register)
	views.GET("/logout", h.logout)
	views.POST("/logout", h.logout)

	views.GET("/", h.home)
	views.GET("/products", h.listProducts)
	views.GET("/products/:id", h.productDetail)

	customer := views.Group("/")
	customer.Use(h.requireRole(domain.RoleCustomer))
	customer.GET("/me", h.me)
	customer.GET("/cart", h.cartView)
	customer.POST("/cart/items", h.addCartItem)
	customer.PUT("/cart/items/:id", h.updateCartItem)
	customer.DELETE("/cart/items/:id", h.removeCartItem)
	customer.GET("/checkout", h.checkoutView)
	customer.POST("/checkout", h.checkout)
	customer.GET("/orders", h.myOrders)
	customer.GET("/orders/:id", h.orderDetail)

	admin := views.Group("/admin")
	admin.Use(h.requireRole(domain.RoleAdmin))
	admin.GET("", h.adminDashboard)
	admin.GET("/products", h.adminProducts)
	admin.POST("/products", h.adminCreateProduct)
	admin.PUT("/products/:id", h.adminUpdateProduct)
	admin.DELETE("/products/:id", h.adminDeleteProduct)
	admin.GET("/categories", h.adminCategories)
	admin.POST("/categories", h.adminCreateCategory)
	admin.PUT("/categories/:id", h.adminUpdateCategory)
	admin.DELETE("/categories/:id", h.adminDeleteCategory)
	admin.GET("/hero-banners", h.adminBanners)
	admin.GET("/hero-banners/:id", h.adminBanner)
	admin.POST("/hero-banners", h.adminCreateBanner)
	admin.PUT("/hero-banners/:id", h.adminUpdateBanner)
	admin.DELETE("/hero-banners/:id", h.adminDeleteBanner)
	admin.GET("/orders", h.adminOrders)
	admin.GET("/orders/:id", h.adminOrder)
	admin.PUT("/orders/:id/status", h.adminUpdateOrderStatus)

	return router, nil
}
