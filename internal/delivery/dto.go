package delivery

import (
	"time"

	"legerity_service/internal/domain"

	"github.com/shopspring/decimal"
)

// Money is rendered as a string with two decimals, e.g. "25.50".
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type ProductResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Info     string `json:"info"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
}

func newProductResponse(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:       p.ID,
		Name:     p.Name(),
		Info:     p.Info,
		Price:    money(p.Price),
		Image:    p.Image,
		Category: string(p.Category),
		Stock:    p.Stock,
	}
}

type CartItemResponse struct {
	ID            int64            `json:"id"`
	Product       *ProductResponse `json:"product"`
	Quantity      int              `json:"quantity"`
	SubtotalPrice string           `json:"subtotal_price"`
}

type CartResponse struct {
	CartItems  []CartItemResponse `json:"cart_items"`
	TotalPrice string             `json:"total_price"`
}

func newCartItemResponse(item domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:            item.ID,
		Product:       newProductResponse(item.Product),
		Quantity:      item.Quantity,
		SubtotalPrice: money(item.Subtotal()),
	}
}

func newCartResponse(cart *domain.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, newCartItemResponse(item))
	}
	return CartResponse{CartItems: items, TotalPrice: money(cart.Total())}
}

type OrderLineResponse struct {
	Product  *int64 `json:"product"`
	Quantity int    `json:"quantity"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	TotalPrice  string              `json:"total_price"`
	Status      string              `json:"status"`
	Address     string              `json:"address"`
	ZipCode     string              `json:"zip_code"`
	PhoneNumber string              `json:"phone_number"`
	CreatedAt   time.Time           `json:"created_at"`
	Products    []OrderLineResponse `json:"products"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineResponse{Product: line.ProductID, Quantity: line.Quantity})
	}
	return OrderResponse{
		ID:          order.ID,
		TotalPrice:  money(order.TotalPrice),
		Status:      string(order.Status),
		Address:     order.Address,
		ZipCode:     order.ZipCode,
		PhoneNumber: order.PhoneNumber,
		CreatedAt:   order.CreatedAt,
		Products:    lines,
	}
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

type ReviewResponse struct {
	Fullname string `json:"fullname"`
	Image    string `json:"image"`
	Comment  string `json:"comment"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}
