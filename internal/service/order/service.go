package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/domain"
)

// RecentOrdersLimit is how many orders the admin dashboard lists.
const RecentOrdersLimit = 5

// ErrEmptyCart is returned by Checkout before any request when the cart has no lines.
var ErrEmptyCart error = &domain.ValidationError{Msg: "Your cart is empty"}

type api interface {
	PlaceOrder(ctx context.Context, credential string, in domain.CheckoutInput) (domain.Order, error)
	ListOrders(ctx context.Context, credential string) ([]domain.Order, error)
	GetOrder(ctx context.Context, credential, id string) (domain.Order, error)
	AdminListOrders(ctx context.Context, credential string) ([]domain.Order, error)
	AdminGetOrder(ctx context.Context, credential, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, credential, id string, status domain.OrderStatus) (domain.Order, error)
	ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
}

// Cart is the local cart the checkout reads and clears.
type Cart interface {
	Len() int
	Clear()
}

type Service struct {
	api api
}

func New(api api) *Service {
	return &Service{api: api}
}

// Checkout places an order for the current server cart. The local cart is
// cleared once the server accepted the order.
func (s *Service) Checkout(ctx context.Context, credential string, cart Cart, in domain.CheckoutInput) (*domain.Order, error) {
	in, err := normalizeCheckout(in)
	if err != nil {
		return nil, err
	}
	if cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	o, err := s.api.PlaceOrder(ctx, credential, in)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	cart.Clear()
	return &o, nil
}

// Mine lists the caller's orders, newest first.
func (s *Service) Mine(ctx context.Context, credential string) ([]domain.Order, error) {
	orders, err := s.api.ListOrders(ctx, credential)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *Service) Get(ctx context.Context, credential, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	o, err := s.api.GetOrder(ctx, credential, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) AdminList(ctx context.Context, credential string) ([]domain.Order, error) {
	orders, err := s.api.AdminListOrders(ctx, credential)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *Service) AdminGet(ctx context.Context, credential, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	o, err := s.api.AdminGetOrder(ctx, credential, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus moves an order to status. Unknown statuses never reach the server.
func (s *Service) UpdateStatus(ctx context.Context, credential, id, status string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	st, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, domain.Invalid(fmt.Sprintf("unknown order status %q", status))
	}
	o, err := s.api.UpdateOrderStatus(ctx, credential, id, st)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Stats backs the admin dashboard.
type Stats struct {
	ProductCount int64          `json:"totalProducts"`
	OrderCount   int            `json:"totalOrders"`
	RecentOrders []domain.Order `json:"recentOrders"`
}

func (s *Service) Dashboard(ctx context.Context, credential string) (*Stats, error) {
	page, err := s.api.ListProducts(ctx, domain.ProductQuery{Page: 0, Size: 1})
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	orders, err := s.AdminList(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	recent := orders
	if len(recent) > RecentOrdersLimit {
		recent = recent[:RecentOrdersLimit]
	}
	return &Stats{
		ProductCount: page.TotalElements,
		OrderCount:   len(orders),
		RecentOrders: recent,
	}, nil
}

// IsEmptyCart reports whether err is the empty cart refusal.
func IsEmptyCart(err error) bool {
	return errors.Is(err, ErrEmptyCart)
}

func normalizeCheckout(in domain.CheckoutInput) (domain.CheckoutInput, error) {
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if in.Address == "" || in.Phone == "" {
		return in, domain.Invalid("Please fill in all fields")
	}
	switch {
	case in.PaymentMethod == "":
		in.PaymentMethod = domain.PaymentCashOnDelivery
	case strings.EqualFold(in.PaymentMethod, domain.PaymentCashOnDelivery):
		in.PaymentMethod = domain.PaymentCashOnDelivery
	case strings.EqualFold(in.PaymentMethod, domain.PaymentCard):
		in.PaymentMethod = domain.PaymentCard
	default:
		return in, domain.Invalid("Unsupported payment method")
	}
	return in, nil
}

func sortNewestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
