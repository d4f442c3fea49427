package category

import (
	"context"
	"strings"

	"storefront/internal/domain"
)

type api interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, credential, name string) (domain.Category, error)
	UpdateCategory(ctx context.Context, credential, id, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, credential, id string) error
}

type Service struct {
	api api
}

func New(api api) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *Service) Create(ctx context.Context, credential, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("Category name is required")
	}
	c, err := s.api.CreateCategory(ctx, credential, name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Update(ctx context.Context, credential, id, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	if name == "" {
		return nil, domain.Invalid("Category name is required")
	}
	c, err := s.api.UpdateCategory(ctx, credential, id, name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, credential, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrNotFound
	}
	return s.api.DeleteCategory(ctx, credential, id)
}

// FindByName returns the category whose name matches case-insensitively.
func FindByName(categories []domain.Category, name string) (domain.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return domain.Category{}, false
}
