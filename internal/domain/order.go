package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPrepared  OrderStatus = "Prepared"
	StatusDelivered OrderStatus = "Delivered"
	StatusCanceled  OrderStatus = "Canceled"
)

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      OrderStatus     `json:"status"`
	Address     string          `json:"address"`
	ZipCode     string          `json:"zip_code"`
	PhoneNumber string          `json:"phone_number"`
	CreatedAt   time.Time       `json:"created_at"`
	Lines       []OrderLine     `json:"products"`
}

// OrderLine snapshots a product reference and quantity at checkout time.
type OrderLine struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	ProductID *int64 `json:"product"`
	Quantity  int    `json:"quantity"`
}

type CheckoutInput struct {
	Address     string `json:"address"`
	ZipCode     string `json:"zip_code"`
	PhoneNumber string `json:"phone_number"`
}

type OrderRepository interface {
	// CreateOrder inserts the order row and all of its lines.
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, userID, id int64) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPrepared, StatusDelivered, StatusCanceled:
		return true
	default:
		return false
	}
}

type OrderUseCase interface {
	PlaceOrder(ctx context.Context, userID int64, input CheckoutInput) (*Order, error)
	GetOrder(ctx context.Context, userID, id int64) (*Order, error)
	ListOrders(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
}
