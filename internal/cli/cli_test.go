package cli

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/gate"
	ordersvc "storefront/internal/service/order"
	"storefront/internal/service/session"
)

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

type fakeShop struct {
	mu       sync.Mutex
	token    string
	identity domain.Identity
	whoErr   error
	product  domain.Product
	cart     domain.Cart
	orders   []domain.Order
	nextLine int
}

func (f *fakeShop) Login(_ context.Context, email, password string) (string, domain.Identity, error) {
	if email != f.identity.Email || password != "secret" {
		return "", domain.Identity{}, domain.ErrUnauthenticated
	}
	return f.token, f.identity, nil
}

func (f *fakeShop) Register(_ context.Context, name, email, _ string) (string, domain.Identity, error) {
	return f.token, domain.Identity{ID: "9", Name: name, Email: email, Role: domain.RoleCustomer}, nil
}

func (f *fakeShop) WhoAmI(_ context.Context, credential string) (domain.Identity, error) {
	if f.whoErr != nil {
		return domain.Identity{}, f.whoErr
	}
	if credential != f.token {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return f.identity, nil
}

func (f *fakeShop) GetCart(context.Context, string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cart
	c.Lines = append([]domain.CartLine(nil), f.cart.Lines...)
	return c, nil
}

func (f *fakeShop) AddCartItem(_ context.Context, _ string, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextLine++
	f.cart.Lines = append(f.cart.Lines, domain.CartLine{
		ID:         strconv.Itoa(f.nextLine),
		Product:    f.product.Snapshot(),
		Quantity:   quantity,
		TotalCents: f.product.PriceCents * int64(quantity),
	})
	f.cart.TotalCents += f.product.PriceCents * int64(quantity)
	return nil
}

func (f *fakeShop) UpdateCartItem(context.Context, string, string, string, int) error {
	return domain.ErrRejected
}

func (f *fakeShop) RemoveCartItem(_ context.Context, _ string, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.cart.Lines {
		if l.ID == lineID {
			f.cart.TotalCents -= l.TotalCents
			f.cart.Lines = append(f.cart.Lines[:i], f.cart.Lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeShop) Get(_ context.Context, id string) (*domain.Product, error) {
	if id != f.product.ID {
		return nil, domain.ErrNotFound
	}
	p := f.product
	return &p, nil
}

func (f *fakeShop) Checkout(_ context.Context, _ string, cart ordersvc.Cart, in domain.CheckoutInput) (*domain.Order, error) {
	if cart.Len() == 0 {
		return nil, ordersvc.ErrEmptyCart
	}
	o := domain.Order{ID: "77", TotalCents: f.cart.TotalCents, Status: domain.OrderPending, PaymentMethod: in.PaymentMethod}
	f.orders = append(f.orders, o)
	cart.Clear()
	return &o, nil
}

func (f *fakeShop) Mine(context.Context, string) ([]domain.Order, error) {
	return f.orders, nil
}

type harness struct {
	shop *fakeShop
	repo sessionrepo.Repository
}

func newHarness(t *testing.T, role domain.Role) *harness {
	return &harness{
		shop: &fakeShop{
			token:    signedToken(t, "1", fixedNow.Add(time.Hour)),
			identity: domain.Identity{ID: "1", Name: "Ada", Email: "ada@example.com", Role: role},
			product:  domain.Product{ID: "5", Name: "Lamp", PriceCents: 1250, Stock: 3},
		},
		repo: sessionrepo.NewMemory(),
	}
}

// run executes one command with a fresh App, the way separate shopctl
// invocations share nothing but the session repository.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &App{
		Store:    session.New(h.shop, h.repo, "default", nil),
		Gate:     gate.New(h.shop, nil, nil),
		Products: h.shop,
		Carts:    cartsvc.New(h.shop, nil, nil),
		Orders:   h.shop,
		Out:      &out,
		Now:      func() time.Time { return fixedNow },
	}
	err := app.Run(context.Background(), args)
	return out.String(), err
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	out, err := h.run(t, "login", "-email", "ada@example.com", "-password", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Ada (CUSTOMER)") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = h.run(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "ada@example.com") {
		t.Fatalf("unexpected whoami output %q", out)
	}
}

func TestLoginFailureUsesFallbackMessage(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	_, err := h.run(t, "login", "-email", "ada@example.com", "-password", "nope")
	if err == nil || err.Error() != "Login failed" {
		t.Fatalf("expected Login failed, got %v", err)
	}
}

func TestWhoAmIWithoutSessionIsUnauthenticated(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	_, err := h.run(t, "whoami")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRejectedCredentialClearsPersistedSession(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	if _, err := h.run(t, "login", "-email", "ada@example.com", "-password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	h.shop.whoErr = domain.ErrUnauthenticated
	if _, err := h.run(t, "whoami"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	h.shop.whoErr = nil
	out, err := h.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Not logged in") {
		t.Fatalf("session should be gone, got %q", out)
	}
}

func TestStatusReportsCredentialExpiry(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin)
	if _, err := h.run(t, "login", "-email", "ada@example.com", "-password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := h.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "ADMIN (cached)") || !strings.Contains(out, "expires at 2026-01-01T13:00:00Z") {
		t.Fatalf("unexpected status %q", out)
	}
}

func TestCartAddRemoveAndCheckout(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	if _, err := h.run(t, "login", "-email", "ada@example.com", "-password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := h.run(t, "cart", "add", "5", "2")
	if err != nil {
		t.Fatalf("cart add: %v", err)
	}
	if !strings.Contains(out, "Added to cart!") || !strings.Contains(out, "25.00") {
		t.Fatalf("unexpected cart output %q", out)
	}

	if _, err := h.run(t, "cart", "update", "1", "3"); err == nil {
		t.Fatalf("expected rejected update to fail")
	}

	out, err = h.run(t, "checkout", "-address", "1 Main St", "-phone", "555")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !strings.Contains(out, "Order placed successfully! #77 total 25.00") {
		t.Fatalf("unexpected checkout output %q", out)
	}

	out, err = h.run(t, "orders")
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if !strings.Contains(out, "77") || !strings.Contains(out, "PENDING") {
		t.Fatalf("unexpected orders output %q", out)
	}
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	if _, err := h.run(t, "login", "-email", "ada@example.com", "-password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err := h.run(t, "checkout", "-address", "1 Main St", "-phone", "555")
	if err == nil || err.Error() != "Your cart is empty" {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, domain.RoleCustomer)
	if _, err := h.run(t, "frobnicate"); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if _, err := h.run(t); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for no args, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	for _, tc := range []struct {
		role domain.Role
		want error
	}{
		{domain.RoleAdmin, nil},
		{domain.RoleCustomer, domain.ErrUnauthorized},
	} {
		h := newHarness(t, tc.role)
		store := session.New(h.shop, sessionrepo.NewMemory(), "seed", nil)
		cred, err := RequireAdmin(context.Background(), store, gate.New(h.shop, nil, nil), "ada@example.com", "secret")
		if tc.want == nil {
			if err != nil || cred != h.shop.token {
				t.Fatalf("role %s: expected credential, got %q %v", tc.role, cred, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("role %s: expected %v, got %v", tc.role, tc.want, err)
		}
	}
}

func TestCredentialExpiry(t *testing.T) {
	exp := fixedNow.Add(30 * time.Minute)
	got, err := CredentialExpiry(signedToken(t, "1", exp))
	if err != nil {
		t.Fatalf("expiry: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %s, got %s", exp, got)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := CredentialExpiry(noExp); !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
	if _, err := CredentialExpiry("opaque-token"); err == nil {
		t.Fatalf("expected parse error for opaque token")
	}
}
