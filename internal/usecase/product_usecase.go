package usecase

import (
	"context"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

const (
	defaultProductLimit = 10
	maxProductLimit     = 100
)

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(repo domain.ProductRepository, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo: repo,
		log:         logger,
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.NotFound("product with id %d not found", id)
	}
	uc.log.Infof("Use Case: Attempting to get product with ID %d", id)
	return uc.productRepo.GetProductByID(ctx, id)
}

func (uc *productUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Category != "" && !domain.IsValidCategory(filter.Category) {
		uc.log.Warnf("Use Case: Unknown product category %q", filter.Category)
		return nil, domain.NewValidationError("category", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", filter.Category))
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset, defaultProductLimit, maxProductLimit)

	products, err := uc.productRepo.ListProducts(ctx, filter)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list products: %v", err)
		return nil, err
	}
	return products, nil
}
