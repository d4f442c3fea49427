package banner

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubAPI struct {
	banners []domain.HeroBanner
	writes  int
}

func (s *stubAPI) ActiveBanners(context.Context) ([]domain.HeroBanner, error) {
	return s.banners, nil
}

func (s *stubAPI) AllBanners(context.Context, string) ([]domain.HeroBanner, error) {
	return s.banners, nil
}

func (s *stubAPI) GetBanner(_ context.Context, _, id string) (domain.HeroBanner, error) {
	return domain.HeroBanner{ID: id}, nil
}

func (s *stubAPI) CreateBanner(_ context.Context, _ string, in domain.BannerInput) (domain.HeroBanner, error) {
	s.writes++
	return domain.HeroBanner{ID: "1", ImageURL: in.ImageURL, Active: in.Active}, nil
}

func (s *stubAPI) UpdateBanner(_ context.Context, _, id string, in domain.BannerInput) (domain.HeroBanner, error) {
	s.writes++
	return domain.HeroBanner{ID: id, ImageURL: in.ImageURL}, nil
}

func (s *stubAPI) DeleteBanner(context.Context, string, string) error {
	s.writes++
	return nil
}

func TestActiveSortedAndFiltered(t *testing.T) {
	api := &stubAPI{banners: []domain.HeroBanner{
		{ID: "a", DisplayOrder: 3, Active: true},
		{ID: "b", DisplayOrder: 1, Active: true},
		{ID: "c", DisplayOrder: 0, Active: false},
	}}
	got, err := New(api).Active(context.Background())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected banners %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	api := &stubAPI{}
	svc := New(api)
	if _, err := svc.Create(context.Background(), "tok", domain.BannerInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "tok", domain.BannerInput{ImageURL: "x.png", DisplayOrder: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.writes != 0 {
		t.Fatalf("invalid banners must not be sent")
	}
}
