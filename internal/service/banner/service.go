package banner

import (
	"context"
	"sort"
	"strings"

	"storefront/internal/domain"
)

type api interface {
	ActiveBanners(ctx context.Context) ([]domain.HeroBanner, error)
	AllBanners(ctx context.Context, credential string) ([]domain.HeroBanner, error)
	GetBanner(ctx context.Context, credential, id string) (domain.HeroBanner, error)
	CreateBanner(ctx context.Context, credential string, in domain.BannerInput) (domain.HeroBanner, error)
	UpdateBanner(ctx context.Context, credential, id string, in domain.BannerInput) (domain.HeroBanner, error)
	DeleteBanner(ctx context.Context, credential, id string) error
}

type Service struct {
	api api
}

func New(api api) *Service {
	return &Service{api: api}
}

// Active returns the banners shown on the home page, in display order.
func (s *Service) Active(ctx context.Context) ([]domain.HeroBanner, error) {
	banners, err := s.api.ActiveBanners(ctx)
	if err != nil {
		return nil, err
	}
	out := banners[:0]
	for _, b := range banners {
		if b.Active {
			out = append(out, b)
		}
	}
	sortByDisplayOrder(out)
	return out, nil
}

func (s *Service) All(ctx context.Context, credential string) ([]domain.HeroBanner, error) {
	banners, err := s.api.AllBanners(ctx, credential)
	if err != nil {
		return nil, err
	}
	sortByDisplayOrder(banners)
	return banners, nil
}

func (s *Service) Get(ctx context.Context, credential, id string) (*domain.HeroBanner, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	b, err := s.api.GetBanner(ctx, credential, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) Create(ctx context.Context, credential string, in domain.BannerInput) (*domain.HeroBanner, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	b, err := s.api.CreateBanner(ctx, credential, in)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) Update(ctx context.Context, credential, id string, in domain.BannerInput) (*domain.HeroBanner, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	b, err := s.api.UpdateBanner(ctx, credential, id, in)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) Delete(ctx context.Context, credential, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrNotFound
	}
	return s.api.DeleteBanner(ctx, credential, id)
}

func normalize(in domain.BannerInput) (domain.BannerInput, error) {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	if in.ImageURL == "" {
		return in, domain.Invalid("Image URL is required")
	}
	if in.DisplayOrder < 0 {
		return in, domain.Invalid("Display order cannot be negative")
	}
	return in, nil
}

func sortByDisplayOrder(banners []domain.HeroBanner) {
	sort.SliceStable(banners, func(i, j int) bool {
		return banners[i].DisplayOrder < banners[j].DisplayOrder
	})
}
