package usecase

import (
	"context"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := uc.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := uc.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list items of cart %d: %v", cart.ID, err)
		return nil, err
	}
	cart.Items = items

	uc.log.Infof("Use Case: Cart %d for user %d has %d items", cart.ID, userID, len(items))
	return cart, nil
}

func (uc *cartUseCase) AddItem(ctx context.Context, userID int64, input domain.AddCartItemInput) (*domain.CartItem, error) {
	if err := input.Validate(); err != nil {
		uc.log.Warnf("Use Case: Add to cart rejected for user %d: %v", userID, err)
		return nil, err
	}
	productID, quantity := *input.ProductID, *input.Quantity
	uc.log.Infof("Use Case: User %d adding product %d (quantity %d) to cart", userID, productID, quantity)

	product, err := uc.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStock(quantity, product.Stock); err != nil {
		uc.log.Warnf("Use Case: Insufficient stock for product %d (requested %d, available %d)", productID, quantity, product.Stock)
		return nil, err
	}

	cart, err := uc.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	exists, err := uc.cartRepo.ItemExists(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cart contents: %w", err)
	}
	if exists {
		uc.log.Warnf("Use Case: Product %d already in cart %d", productID, cart.ID)
		return nil, domain.ErrProductAlreadyInCart
	}

	item, err := uc.cartRepo.CreateItem(ctx, &domain.CartItem{
		CartID:    cart.ID,
		ProductID: &product.ID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, err
	}
	item.Product = product

	uc.log.Infof("Use Case: Cart item %d created for user %d", item.ID, userID)
	return item, nil
}

// UpdateItemQuantity resolves the item before looking at the payload, so a
// foreign or missing item is always reported as not found.
func (uc *cartUseCase) UpdateItemQuantity(ctx context.Context, userID, itemID int64, input domain.UpdateCartItemInput) (*domain.CartItem, error) {
	item, err := uc.cartRepo.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		uc.log.Warnf("Use Case: Quantity update rejected for cart item %d: %v", itemID, err)
		return nil, err
	}
	quantity := *input.Quantity

	if item.Product == nil {
		uc.log.Warnf("Use Case: Cart item %d refers to a removed product", itemID)
		return nil, domain.NewValidationError("product", "Product is no longer available")
	}
	if err := domain.ValidateStock(quantity, item.Product.Stock); err != nil {
		uc.log.Warnf("Use Case: Insufficient stock for product %d (requested %d, available %d)", item.Product.ID, quantity, item.Product.Stock)
		return nil, err
	}

	if err := uc.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity

	uc.log.Infof("Use Case: Cart item %d quantity updated to %d", itemID, quantity)
	return item, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if err := uc.cartRepo.DeleteItem(ctx, userID, itemID); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Cart item %d removed by user %d", itemID, userID)
	return nil
}
