package usecase

import (
	"context"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.SiteUseCase = (*siteUseCase)(nil)

// SiteSettings holds the /about figures that are not derived from data.
type SiteSettings struct {
	NumberOfPersonals   int
	SatisfactionPercent int
}

type siteUseCase struct {
	userRepo    domain.UserRepository
	productRepo domain.ProductRepository
	reviewRepo  domain.ReviewRepository
	settings    SiteSettings
	log         *logrus.Logger
}

func NewSiteUseCase(
	userRepo domain.UserRepository,
	productRepo domain.ProductRepository,
	reviewRepo domain.ReviewRepository,
	settings SiteSettings,
	logger *logrus.Logger,
) domain.SiteUseCase {
	return &siteUseCase{
		userRepo:    userRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		settings:    settings,
		log:         logger,
	}
}

func (uc *siteUseCase) About(ctx context.Context) (*domain.About, error) {
	customers, err := uc.userRepo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.About{
		NumberOfCustomers:   customers,
		NumberOfProducts:    products,
		NumberOfPersonals:   uc.settings.NumberOfPersonals,
		SatisfactionPercent: uc.settings.SatisfactionPercent,
	}, nil
}

func (uc *siteUseCase) ListReviews(ctx context.Context) ([]domain.Review, error) {
	reviews, err := uc.reviewRepo.ListReviews(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list reviews: %v", err)
		return nil, err
	}
	return reviews, nil
}
