package httpserver

import (
	"context"
	"io"
	"log"
	"strconv"
	"sync"

	"storefront/internal/domain"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeUser struct {
	identity domain.Identity
	password string
}

// fakeAPI is an in-memory stand-in for the remote REST API.
type fakeAPI struct {
	mu sync.Mutex

	users    map[string]fakeUser
	tokens   map[string]string
	whoAmErr error

	products   map[string]domain.Product
	categories []domain.Category
	banners    []domain.HeroBanner
	cart       domain.Cart
	addErr     error
	orders     []domain.Order
	nextID     int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]fakeUser{
			"ada@example.com":  {identity: domain.Identity{ID: "1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleCustomer}, password: "secret"},
			"root@example.com": {identity: domain.Identity{ID: "2", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}, password: "secret"},
		},
		tokens: map[string]string{},
		products: map[string]domain.Product{
			"5": {ID: "5", Name: "Lamp", Description: "**Warm** light", PriceCents: 1000, Stock: 5, Category: domain.Category{ID: "1", Name: "Home"}},
		},
		categories: []domain.Category{{ID: "1", Name: "Home"}},
		banners: []domain.HeroBanner{
			{ID: "b2", ImageURL: "/b2.png", Title: "<b>Later</b>", DisplayOrder: 2, Active: true},
			{ID: "b1", ImageURL: "/b1.png", Title: "First", DisplayOrder: 1, Active: true},
		},
		cart:   domain.Cart{ID: "c1"},
		nextID: 100,
	}
}

func (f *fakeAPI) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (string, domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.password != password {
		return "", domain.Identity{}, domain.ErrUnauthenticated
	}
	token := "tok-" + u.identity.ID
	f.tokens[token] = email
	return token, u.identity, nil
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (string, domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return "", domain.Identity{}, domain.ErrRejected
	}
	identity := domain.Identity{ID: f.id(), Name: name, Email: email}
	f.users[email] = fakeUser{identity: identity, password: password}
	token := "tok-" + identity.ID
	f.tokens[token] = email
	return token, identity, nil
}

func (f *fakeAPI) WhoAmI(_ context.Context, credential string) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.whoAmErr != nil {
		return domain.Identity{}, f.whoAmErr
	}
	email, ok := f.tokens[credential]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return f.users[email].identity, nil
}

func (f *fakeAPI) setRole(email string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[email]
	u.identity.Role = role
	f.users[email] = u
}

func (f *fakeAPI) GetCart(context.Context, string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.cart
	out.Lines = append([]domain.CartLine(nil), f.cart.Lines...)
	return out, nil
}

func (f *fakeAPI) AddCartItem(_ context.Context, _, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	p := f.products[productID]
	for i := range f.cart.Lines {
		if f.cart.Lines[i].Product.ID == productID {
			f.cart.Lines[i].Quantity += quantity
			f.recomputeCart()
			return nil
		}
	}
	f.cart.Lines = append(f.cart.Lines, domain.CartLine{ID: f.id(), Product: p.Snapshot(), Quantity: quantity})
	f.recomputeCart()
	return nil
}

func (f *fakeAPI) UpdateCartItem(_ context.Context, _, lineID, _ string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart.Lines {
		if f.cart.Lines[i].ID == lineID {
			f.cart.Lines[i].Quantity = quantity
			f.recomputeCart()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAPI) RemoveCartItem(_ context.Context, _, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart.Lines {
		if f.cart.Lines[i].ID == lineID {
			f.cart.Lines = append(f.cart.Lines[:i], f.cart.Lines[i+1:]...)
			f.recomputeCart()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAPI) recomputeCart() {
	var total int64
	for i := range f.cart.Lines {
		l := &f.cart.Lines[i]
		l.TotalCents = int64(l.Quantity) * l.Product.UnitPriceCents
		total += l.TotalCents
	}
	f.cart.SubtotalCents = total
	f.cart.TotalCents = total
}

func (f *fakeAPI) ListProducts(_ context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := domain.ProductPage{Size: q.Size, Number: q.Page, TotalElements: int64(len(f.products)), TotalPages: 1}
	for _, p := range f.products {
		page.Items = append(page.Items, p)
	}
	return page, nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeAPI) CreateProduct(_ context.Context, _ string, in domain.ProductInput) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Product{ID: f.id(), Name: in.Name, Description: in.Description, PriceCents: in.PriceCents, Stock: in.Stock}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, _, id string, in domain.ProductInput) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	p := domain.Product{ID: id, Name: in.Name, PriceCents: in.PriceCents, Stock: in.Stock}
	f.products[id] = p
	return p, nil
}

func (f *fakeAPI) DeleteProduct(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeAPI) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, _, name string) (domain.Category, error) {
	c := domain.Category{ID: f.id(), Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeAPI) UpdateCategory(_ context.Context, _, id, name string) (domain.Category, error) {
	return domain.Category{ID: id, Name: name}, nil
}

func (f *fakeAPI) DeleteCategory(context.Context, string, string) error { return nil }

func (f *fakeAPI) ActiveBanners(context.Context) ([]domain.HeroBanner, error) {
	return append([]domain.HeroBanner(nil), f.banners...), nil
}

func (f *fakeAPI) AllBanners(context.Context, string) ([]domain.HeroBanner, error) {
	return append([]domain.HeroBanner(nil), f.banners...), nil
}

func (f *fakeAPI) GetBanner(_ context.Context, _, id string) (domain.HeroBanner, error) {
	for _, b := range f.banners {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.HeroBanner{}, domain.ErrNotFound
}

func (f *fakeAPI) CreateBanner(_ context.Context, _ string, in domain.BannerInput) (domain.HeroBanner, error) {
	return domain.HeroBanner{ID: f.id(), ImageURL: in.ImageURL, Title: in.Title, DisplayOrder: in.DisplayOrder, Active: in.Active}, nil
}

func (f *fakeAPI) UpdateBanner(_ context.Context, _, id string, in domain.BannerInput) (domain.HeroBanner, error) {
	return domain.HeroBanner{ID: id, ImageURL: in.ImageURL}, nil
}

func (f *fakeAPI) DeleteBanner(context.Context, string, string) error { return nil }

func (f *fakeAPI) PlaceOrder(_ context.Context, _ string, in domain.CheckoutInput) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := domain.Order{
		ID:            f.id(),
		TotalCents:    f.cart.TotalCents,
		Status:        domain.OrderPending,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: domain.PaymentUnpaid,
		Address:       in.Address,
		Phone:         in.Phone,
	}
	f.orders = append(f.orders, o)
	f.cart = domain.Cart{ID: f.cart.ID}
	return o, nil
}

func (f *fakeAPI) ListOrders(context.Context, string) ([]domain.Order, error) {
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeAPI) GetOrder(_ context.Context, _, id string) (domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

func (f *fakeAPI) AdminListOrders(ctx context.Context, cred string) ([]domain.Order, error) {
	return f.ListOrders(ctx, cred)
}

func (f *fakeAPI) AdminGetOrder(ctx context.Context, cred, id string) (domain.Order, error) {
	return f.GetOrder(ctx, cred, id)
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, _, id string, status domain.OrderStatus) (domain.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return f.orders[i], nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}
