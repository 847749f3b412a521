package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryMask    Category = "Mask"
	CategoryBalm    Category = "Balm"
	CategoryCream   Category = "Cream"
	CategoryOil     Category = "Oil"
	CategoryShampoo Category = "Shampoo"
)

func IsValidCategory(category Category) bool {
	switch category {
	case CategoryMask, CategoryBalm, CategoryCream, CategoryOil, CategoryShampoo:
		return true
	default:
		return false
	}
}

const productBrand = "Legerity Beauty Hair"

type Product struct {
	ID          int64           `json:"id"`
	Info        string          `json:"info"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	Category    Category        `json:"category"`
	SalesNumber int             `json:"sales_number"`
}

// Name is the catalog display name, derived from the category.
func (p Product) Name() string {
	return productBrand + " " + string(p.Category)
}

type ProductFilter struct {
	Category Category
	Limit    int
	Offset   int
}

type ProductRepository interface {
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	CountProducts(ctx context.Context) (int, error)
	// ReserveStock decrements stock and bumps the sales counter, failing when
	// fewer than quantity units are left.
	ReserveStock(ctx context.Context, id int64, quantity int) error
}

type ProductUseCase interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
}
