package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const productColumns = `id, info, price, stock, image, category, sales_number`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Info,
		&product.Price,
		&product.Stock,
		&product.Image,
		&product.Category,
		&product.SalesNumber,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, domain.NotFound("product with id %d not found", id)
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	r.log.Debugf("Repository: Product retrieved successfully with ID: %d", id)
	return product, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` WHERE category = $%d`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Debugf("Repository: Listed %d products (category %q, limit %d, offset %d)", len(products), filter.Category, filter.Limit, filter.Offset)
	return products, nil
}

func (r *postgresProductRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.log.Errorf("Repository: Failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return count, nil
}

func (r *postgresProductRepository) ReserveStock(ctx context.Context, id int64, quantity int) error {
	query := `
        UPDATE products
        SET stock = stock - $1, sales_number = sales_number + $1
        WHERE id = $2 AND stock >= $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, quantity, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to reserve %d units of product %d: %v", quantity, id, err)
		return fmt.Errorf("could not reserve stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read reserved rows: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Repository: Insufficient stock for product %d (requested %d)", id, quantity)
		return domain.NewValidationError("quantity", fmt.Sprintf("Not enough stock for product %d", id))
	}

	r.log.Infof("Repository: Reserved %d units of product %d", quantity, id)
	return nil
}
