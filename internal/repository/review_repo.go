package repository

import (
	"context"
	"database/sql"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresReviewRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresReviewRepository(db *sql.DB, logger *logrus.Logger) domain.ReviewRepository {
	return &postgresReviewRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresReviewRepository) ListReviews(ctx context.Context) ([]domain.Review, error) {
	query := `SELECT id, fullname, image, comment, created_at FROM reviews ORDER BY created_at DESC, id DESC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list reviews: %v", err)
		return nil, fmt.Errorf("could not list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.Fullname, &review.Image, &review.Comment, &review.CreatedAt); err != nil {
			r.log.Errorf("Repository: Failed to scan review row: %v", err)
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
