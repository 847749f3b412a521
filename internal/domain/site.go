package domain

import (
	"context"
	"time"
)

type About struct {
	NumberOfCustomers   int `json:"number_of_customers"`
	NumberOfProducts    int `json:"number_of_products"`
	NumberOfPersonals   int `json:"number_of_personals"`
	SatisfactionPercent int `json:"satisfaction_percent"`
}

type Review struct {
	ID        int64     `json:"id"`
	Fullname  string    `json:"fullname"`
	Image     string    `json:"image"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewRepository interface {
	ListReviews(ctx context.Context) ([]Review, error)
}

type SiteUseCase interface {
	About(ctx context.Context) (*About, error)
	ListReviews(ctx context.Context) ([]Review, error)
}
