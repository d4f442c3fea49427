package product

import (
	"context"
	"strings"

	"storefront/internal/domain"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type api interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, credential string, in domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, credential, id string, in domain.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, credential, id string) error
}

type Service struct {
	api api
}

func New(api api) *Service {
	return &Service{api: api}
}

// List returns one page of the public catalog. Page defaults to 0 and size
// to DefaultPageSize.
func (s *Service) List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.CategoryID = strings.TrimSpace(q.CategoryID)
	if q.Page < 0 {
		q.Page = 0
	}
	switch {
	case q.Size <= 0:
		q.Size = DefaultPageSize
	case q.Size > MaxPageSize:
		q.Size = MaxPageSize
	}
	if q.MinPriceCents != nil && *q.MinPriceCents < 0 {
		return nil, domain.Invalid("min price must not be negative")
	}
	if q.MinPriceCents != nil && q.MaxPriceCents != nil && *q.MinPriceCents > *q.MaxPriceCents {
		return nil, domain.Invalid("min price must not exceed max price")
	}
	page, err := s.api.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	p, err := s.api.CreateProduct(ctx, credential, in)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, credential, id string, in domain.ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	p, err := s.api.UpdateProduct(ctx, credential, id, in)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, credential, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrNotFound
	}
	return s.api.DeleteProduct(ctx, credential, id)
}

func normalize(in domain.ProductInput) (domain.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	switch {
	case in.Name == "":
		return in, domain.Invalid("Product name is required")
	case in.PriceCents <= 0:
		return in, domain.Invalid("Price must be greater than 0")
	case in.Stock < 0:
		return in, domain.Invalid("Stock cannot be negative")
	case in.CategoryID == "":
		return in, domain.Invalid("Category is required")
	}
	return in, nil
}
