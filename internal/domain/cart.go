package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"user_id"`
	Items  []CartItem `json:"cart_items"`
}

// Total is the sum of the item subtotals at current catalog prices.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CartItem references its product by id; ProductID and Product are nil once
// the product has been removed from the catalog.
type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cart_id"`
	ProductID *int64   `json:"product"`
	Product   *Product `json:"-"`
	Quantity  int      `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type AddCartItemInput struct {
	ProductID *int64 `json:"product"`
	Quantity  *int   `json:"quantity"`
}

type UpdateCartItemInput struct {
	Quantity *int `json:"quantity"`
}

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID int64) (*Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]CartItem, error)
	// ListItemsForUpdate locks the cart's item rows until the surrounding
	// transaction ends.
	ListItemsForUpdate(ctx context.Context, cartID int64) ([]CartItem, error)
	GetItem(ctx context.Context, userID, itemID int64) (*CartItem, error)
	ItemExists(ctx context.Context, cartID, productID int64) (bool, error)
	CreateItem(ctx context.Context, item *CartItem) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, userID, itemID int64) error
	ClearItems(ctx context.Context, cartID int64, itemIDs []int64) (int64, error)
}

type CartUseCase interface {
	GetCart(ctx context.Context, userID int64) (*Cart, error)
	AddItem(ctx context.Context, userID int64, input AddCartItemInput) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID int64, input UpdateCartItemInput) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
}
