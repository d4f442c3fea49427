package product

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubAPI struct {
	lastQuery  domain.ProductQuery
	lastInput  domain.ProductInput
	listCalls  int
	writeCalls int
}

func (s *stubAPI) ListProducts(_ context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	s.listCalls++
	s.lastQuery = q
	return domain.ProductPage{Size: q.Size, Number: q.Page}, nil
}

func (s *stubAPI) GetProduct(_ context.Context, id string) (domain.Product, error) {
	return domain.Product{ID: id}, nil
}

func (s *stubAPI) CreateProduct(_ context.Context, _ string, in domain.ProductInput) (domain.Product, error) {
	s.writeCalls++
	s.lastInput = in
	return domain.Product{ID: "1", Name: in.Name, PriceCents: in.PriceCents}, nil
}

func (s *stubAPI) UpdateProduct(_ context.Context, _, id string, in domain.ProductInput) (domain.Product, error) {
	s.writeCalls++
	s.lastInput = in
	return domain.Product{ID: id, Name: in.Name}, nil
}

func (s *stubAPI) DeleteProduct(context.Context, string, string) error {
	s.writeCalls++
	return nil
}

func TestListDefaults(t *testing.T) {
	api := &stubAPI{}
	if _, err := New(api).List(context.Background(), domain.ProductQuery{Page: -2, Search: "  lamp "}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if api.lastQuery.Page != 0 || api.lastQuery.Size != DefaultPageSize || api.lastQuery.Search != "lamp" {
		t.Fatalf("unexpected query %+v", api.lastQuery)
	}
}

func TestListRejectsInvertedPriceRange(t *testing.T) {
	api := &stubAPI{}
	lo, hi := int64(500), int64(100)
	_, err := New(api).List(context.Background(), domain.ProductQuery{MinPriceCents: &lo, MaxPriceCents: &hi})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.listCalls != 0 {
		t.Fatalf("invalid query must not be sent")
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []domain.ProductInput{
		{Name: " ", PriceCents: 100, CategoryID: "1"},
		{Name: "Lamp", PriceCents: 0, CategoryID: "1"},
		{Name: "Lamp", PriceCents: 100, Stock: -1, CategoryID: "1"},
		{Name: "Lamp", PriceCents: 100},
	}
	api := &stubAPI{}
	for _, in := range cases {
		if _, err := New(api).Create(context.Background(), "tok", in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
	if api.writeCalls != 0 {
		t.Fatalf("invalid input must not be sent")
	}
}

func TestCreateTrimsInput(t *testing.T) {
	api := &stubAPI{}
	p, err := New(api).Create(context.Background(), "tok", domain.ProductInput{Name: " Lamp ", PriceCents: 1999, Stock: 3, CategoryID: " 2 "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Lamp" || api.lastInput.CategoryID != "2" {
		t.Fatalf("unexpected result %+v / %+v", p, api.lastInput)
	}
}
