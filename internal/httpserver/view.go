package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/remote"
	cartsvc "storefront/internal/service/cart"
)

type noticeLevel string

const (
	noticeSuccess noticeLevel = "success"
	noticeError   noticeLevel = "error"
)

// notice is a one-shot message shown to the user with the view.
type notice struct {
	Level   noticeLevel `json:"level"`
	Message string      `json:"message"`
}

// viewResponse is the envelope of every view model.
type viewResponse struct {
	User     *domain.Identity `json:"user,omitempty"`
	Notice   *notice          `json:"notice,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
	Data     any              `json:"data,omitempty"`
}

func success(msg string) *notice {
	return &notice{Level: noticeSuccess, Message: msg}
}

func failure(err error, fallback string) *notice {
	return &notice{Level: noticeError, Message: remote.Message(err, fallback)}
}

// statusFor maps an error kind to the status of the view that reports it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRejected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// redirect answers with 303 and a JSON body carrying the target and notice.
func redirect(c *gin.Context, location string, n *notice) {
	c.Header("Location", location)
	c.JSON(http.StatusSeeOther, viewResponse{Notice: n, Redirect: location})
}

func respond(c *gin.Context, status int, n *notice, data any) {
	c.JSON(status, viewResponse{User: currentUser(c), Notice: n, Data: data})
}

// currentUser prefers the gate verified identity and falls back to the cached one.
func currentUser(c *gin.Context) *domain.Identity {
	if identity := verifiedIdentity(c); identity != nil {
		return identity
	}
	if store := sessionStore(c); store != nil {
		if identity, ok := store.Identity(); ok {
			return &identity
		}
	}
	return nil
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

func formatCents(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}

// parseCents reads a decimal amount such as "12.5" into cents.
func parseCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.Invalid("invalid amount " + strconv.Quote(s))
	}
	return int64(math.Round(f * 100)), nil
}

type productView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
	Price           string          `json:"price"`
	PriceCents      int64           `json:"priceCents"`
	Stock           int             `json:"stock"`
	InStock         bool            `json:"inStock"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Category        domain.Category `json:"category"`
}

func (h *handlers) toProductView(p domain.Product, withHTML bool) productView {
	v := productView{
		ID:         p.ID,
		Name:       p.Name,
		Price:      formatCents(p.PriceCents),
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		InStock:    p.Stock > 0,
		ImageURL:   p.ImageURL,
		Category:   p.Category,
	}
	if withHTML {
		v.Description = p.Description
		v.DescriptionHTML = h.renderer.HTML(p.Description)
	}
	return v
}

type productPageView struct {
	Items         []productView `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Size          int           `json:"size"`
	Number        int           `json:"number"`
}

func (h *handlers) toProductPageView(p domain.ProductPage) productPageView {
	items := make([]productView, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, h.toProductView(it, false))
	}
	return productPageView{
		Items:         items,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Size:          p.Size,
		Number:        p.Number,
	}
}

type bannerView struct {
	ID           string `json:"id"`
	ImageURL     string `json:"imageUrl"`
	Title        string `json:"title,omitempty"`
	Subtitle     string `json:"subtitle,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	Active       bool   `json:"isActive"`
}

func (h *handlers) toBannerViews(banners []domain.HeroBanner) []bannerView {
	out := make([]bannerView, 0, len(banners))
	for _, b := range banners {
		out = append(out, bannerView{
			ID:           b.ID,
			ImageURL:     b.ImageURL,
			Title:        h.renderer.Text(b.Title),
			Subtitle:     h.renderer.Text(b.Subtitle),
			DisplayOrder: b.DisplayOrder,
			Active:       b.Active,
		})
	}
	return out
}

type cartLineView struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Stock          int    `json:"stock"`
	UnitPrice      string `json:"unitPrice"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	ItemTotal      string `json:"itemTotal"`
	ItemTotalCents int64  `json:"itemTotalCents"`
	Pending        bool   `json:"pending,omitempty"`
}

type cartView struct {
	ID            string         `json:"id,omitempty"`
	Items         []cartLineView `json:"items"`
	ItemCount     int            `json:"itemCount"`
	Subtotal      string         `json:"subtotal"`
	SubtotalCents int64          `json:"subtotalCents"`
	Total         string         `json:"total"`
	TotalCents    int64          `json:"totalCents"`
}

func toCartView(cart domain.Cart) cartView {
	v := cartView{
		ID:            cart.ID,
		Items:         make([]cartLineView, 0, len(cart.Lines)),
		Subtotal:      formatCents(cart.SubtotalCents),
		SubtotalCents: cart.SubtotalCents,
		Total:         formatCents(cart.TotalCents),
		TotalCents:    cart.TotalCents,
	}
	for _, l := range cart.Lines {
		v.ItemCount += l.Quantity
		v.Items = append(v.Items, cartLineView{
			ID:             l.ID,
			ProductID:      l.Product.ID,
			Name:           l.Product.Name,
			ImageURL:       l.Product.ImageURL,
			Stock:          l.Product.StockLimit,
			UnitPrice:      formatCents(l.Product.UnitPriceCents),
			UnitPriceCents: l.Product.UnitPriceCents,
			Quantity:       l.Quantity,
			ItemTotal:      formatCents(l.TotalCents),
			ItemTotalCents: l.TotalCents,
			Pending:        strings.HasPrefix(l.ID, cartsvc.TempLinePrefix),
		})
	}
	return v
}

type orderItemView struct {
	ProductID string `json:"productId"`
	Name      string `json:"productName"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

type orderView struct {
	ID            string               `json:"id"`
	UserName      string               `json:"userName,omitempty"`
	Total         string               `json:"totalAmount"`
	TotalCents    int64                `json:"totalAmountCents"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentMethod string               `json:"paymentMethod"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Address       string               `json:"address,omitempty"`
	Phone         string               `json:"phone,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	Items         []orderItemView      `json:"items"`
}

func toOrderView(o domain.Order) orderView {
	v := orderView{
		ID:            o.ID,
		UserName:      o.UserName,
		Total:         formatCents(o.TotalCents),
		TotalCents:    o.TotalCents,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Address:       o.Address,
		Phone:         o.Phone,
		CreatedAt:     o.CreatedAt,
		Items:         make([]orderItemView, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, orderItemView{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			UnitPrice: formatCents(it.UnitPriceCents),
			Quantity:  it.Quantity,
			Total:     formatCents(it.TotalCents),
		})
	}
	return v
}

func toOrderViews(orders []domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	return out
}
