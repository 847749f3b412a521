package usecase

import (
	"context"
	"errors"

	"legerity_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

type orderUseCase struct {
	tx          domain.Transactor
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	log         *logrus.Logger
}

func NewOrderUseCase(
	tx domain.Transactor,
	cartRepo domain.CartRepository,
	productRepo domain.ProductRepository,
	orderRepo domain.OrderRepository,
	logger *logrus.Logger,
) domain.OrderUseCase {
	return &orderUseCase{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		log:         logger,
	}
}

// PlaceOrder turns the user's cart into an order. Stock reservation, the
// order rows and the cart cleanup share one transaction.
func (uc *orderUseCase) PlaceOrder(ctx context.Context, userID int64, input domain.CheckoutInput) (*domain.Order, error) {
	if err := input.Validate(); err != nil {
		uc.log.Warnf("Use Case: Checkout rejected for user %d: %v", userID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Starting checkout for user %d", userID)

	var created *domain.Order
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := uc.cartRepo.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}

		items, err := uc.cartRepo.ListItemsForUpdate(ctx, cart.ID)
		if err != nil {
			return err
		}

		order := &domain.Order{
			UserID:      userID,
			Status:      domain.StatusPrepared,
			Address:     input.Address,
			ZipCode:     input.ZipCode,
			PhoneNumber: input.PhoneNumber,
			TotalPrice:  decimal.Zero,
		}
		readIDs := make([]int64, 0, len(items))
		for _, item := range items {
			readIDs = append(readIDs, item.ID)
			if item.Product == nil {
				uc.log.Warnf("Use Case: Skipping cart item %d, product no longer exists", item.ID)
				continue
			}
			order.TotalPrice = order.TotalPrice.Add(item.Subtotal())
			order.Lines = append(order.Lines, domain.OrderLine{
				ProductID: &item.Product.ID,
				Quantity:  item.Quantity,
			})
		}
		if len(order.Lines) == 0 {
			uc.log.Warnf("Use Case: Checkout rejected for user %d, cart is empty", userID)
			return domain.ErrCartEmpty
		}

		for _, line := range order.Lines {
			if err := uc.productRepo.ReserveStock(ctx, *line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		created, err = uc.orderRepo.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		cleared, err := uc.cartRepo.ClearItems(ctx, cart.ID, readIDs)
		if err != nil {
			return err
		}
		uc.log.Infof("Use Case: Cleared %d items from cart %d", cleared, cart.ID)
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			uc.log.Errorf("Use Case: Checkout failed for user %d: %v", userID, err)
		}
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d placed by user %d, total %s", created.ID, userID, created.TotalPrice.StringFixed(2))
	return created, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, userID, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.NotFound("order with id %d not found", id)
	}
	order, err := uc.orderRepo.GetOrderByID(ctx, userID, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get order ID %d: %v", id, err)
		return nil, err
	}
	return order, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	limit, offset = normalizePage(limit, offset, defaultOrderLimit, maxOrderLimit)

	orders, err := uc.orderRepo.ListOrdersByUserID(ctx, userID, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list orders for user %d: %v", userID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Listed %d orders for user %d", len(orders), userID)
	return orders, nil
}

func normalizePage(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
