package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
)

type stubAPI struct {
	placed      *domain.CheckoutInput
	placeErr    error
	orders      []domain.Order
	statusSent  domain.OrderStatus
	statusCalls int
	products    domain.ProductPage
}

func (s *stubAPI) PlaceOrder(_ context.Context, _ string, in domain.CheckoutInput) (domain.Order, error) {
	s.placed = &in
	if s.placeErr != nil {
		return domain.Order{}, s.placeErr
	}
	return domain.Order{ID: "99", Status: domain.OrderPending, PaymentMethod: in.PaymentMethod}, nil
}

func (s *stubAPI) ListOrders(context.Context, string) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubAPI) GetOrder(_ context.Context, _, id string) (domain.Order, error) {
	return domain.Order{ID: id}, nil
}

func (s *stubAPI) AdminListOrders(context.Context, string) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubAPI) AdminGetOrder(_ context.Context, _, id string) (domain.Order, error) {
	return domain.Order{ID: id}, nil
}

func (s *stubAPI) UpdateOrderStatus(_ context.Context, _, id string, status domain.OrderStatus) (domain.Order, error) {
	s.statusCalls++
	s.statusSent = status
	return domain.Order{ID: id, Status: status}, nil
}

func (s *stubAPI) ListProducts(context.Context, domain.ProductQuery) (domain.ProductPage, error) {
	return s.products, nil
}

type stubCart struct {
	lines   int
	cleared bool
}

func (c *stubCart) Len() int { return c.lines }
func (c *stubCart) Clear()   { c.cleared = true; c.lines = 0 }

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	api := &stubAPI{}
	cart := &stubCart{lines: 2}
	o, err := New(api).Checkout(context.Background(), "tok", cart, domain.CheckoutInput{Address: " 1 Main St ", Phone: "555"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.ID != "99" || !cart.cleared {
		t.Fatalf("unexpected result %+v cleared=%v", o, cart.cleared)
	}
	if api.placed.Address != "1 Main St" || api.placed.PaymentMethod != domain.PaymentCashOnDelivery {
		t.Fatalf("unexpected request %+v", api.placed)
	}
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	api := &stubAPI{placeErr: domain.ErrRejected}
	cart := &stubCart{lines: 1}
	_, err := New(api).Checkout(context.Background(), "tok", cart, domain.CheckoutInput{Address: "a", Phone: "b", PaymentMethod: "card payment"})
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if cart.cleared {
		t.Fatalf("cart must survive a failed checkout")
	}
	if api.placed.PaymentMethod != domain.PaymentCard {
		t.Fatalf("payment method not normalized: %q", api.placed.PaymentMethod)
	}
}

func TestCheckoutValidation(t *testing.T) {
	cases := []struct {
		name  string
		lines int
		in    domain.CheckoutInput
	}{
		{"missing phone", 1, domain.CheckoutInput{Address: "a"}},
		{"missing address", 1, domain.CheckoutInput{Phone: "1"}},
		{"bad payment", 1, domain.CheckoutInput{Address: "a", Phone: "1", PaymentMethod: "barter"}},
		{"empty cart", 0, domain.CheckoutInput{Address: "a", Phone: "1"}},
	}
	for _, tc := range cases {
		api := &stubAPI{}
		_, err := New(api).Checkout(context.Background(), "tok", &stubCart{lines: tc.lines}, tc.in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if api.placed != nil {
			t.Fatalf("%s: no order should be placed", tc.name)
		}
	}
	_, err := New(&stubAPI{}).Checkout(context.Background(), "tok", &stubCart{}, domain.CheckoutInput{Address: "a", Phone: "1"})
	if !IsEmptyCart(err) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	api := &stubAPI{}
	svc := New(api)
	if _, err := svc.UpdateStatus(context.Background(), "tok", "1", "LOST"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.statusCalls != 0 {
		t.Fatalf("unknown status must not be sent")
	}
	o, err := svc.UpdateStatus(context.Background(), "tok", "1", "shipped")
	if err != nil || o.Status != domain.OrderShipped || api.statusSent != domain.OrderShipped {
		t.Fatalf("unexpected update %+v, %v", o, err)
	}
}

func TestDashboardStats(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var orders []domain.Order
	for i := 0; i < 7; i++ {
		orders = append(orders, domain.Order{ID: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	api := &stubAPI{orders: orders, products: domain.ProductPage{TotalElements: 42}}

	stats, err := New(api).Dashboard(context.Background(), "tok")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.ProductCount != 42 || stats.OrderCount != 7 || len(stats.RecentOrders) != RecentOrdersLimit {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.RecentOrders[0].ID != "g" {
		t.Fatalf("expected newest order first, got %q", stats.RecentOrders[0].ID)
	}
}
