package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const orderColumns = `id, user_id, total_price, status, address, zip_code, phone_number, created_at`

type postgresOrderRepository struct {
	db  *sql.DB
	tx  domain.Transactor
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		tx:  NewPostgresTransactor(db, logger),
		log: logger,
	}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalPrice,
		&order.Status,
		&order.Address,
		&order.ZipCode,
		&order.PhoneNumber,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Lines = []domain.OrderLine{}
	return order, nil
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Status == "" {
		order.Status = domain.StatusPrepared
	}

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		orderQuery := `
            INSERT INTO orders (user_id, total_price, status, address, zip_code, phone_number)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id, created_at`
		err := db.QueryRowContext(ctx, orderQuery,
			order.UserID, order.TotalPrice, order.Status, order.Address, order.ZipCode, order.PhoneNumber,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			r.log.Errorf("Repository: Failed to insert order: %v", err)
			return fmt.Errorf("could not insert order: %w", err)
		}
		r.log.Infof("Repository: Inserted order with ID: %d", order.ID)

		lineQuery := `INSERT INTO order_lines (order_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`
		for i := range order.Lines {
			line := &order.Lines[i]
			line.OrderID = order.ID
			if err := db.QueryRowContext(ctx, lineQuery, order.ID, line.ProductID, line.Quantity).Scan(&line.ID); err != nil {
				r.log.Errorf("Repository: Failed to insert order line for product %v: %v", line.ProductID, err)
				return fmt.Errorf("could not insert order line: %w", err)
			}
		}
		r.log.Infof("Repository: Inserted %d lines for order ID: %d", len(order.Lines), order.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order.Lines == nil {
		order.Lines = []domain.OrderLine{}
	}
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, userID, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	order, err := scanOrder(conn(ctx, r.db).QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found for user %d", id, userID)
			return nil, domain.NotFound("order with id %d not found", id)
		}
		r.log.Errorf("Repository: Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get order: %w", err)
	}

	if err := r.attachLines(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, *order)
	}
	r.log.Debugf("Repository: Listed %d orders for user %d", len(result), userID)
	return result, nil
}

// attachLines loads the lines of all given orders in a single query.
func (r *postgresOrderRepository) attachLines(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}

	query := `SELECT id, order_id, product_id, quantity FROM order_lines WHERE order_id = ANY($1) ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.log.Errorf("Repository: Failed to load order lines: %v", err)
		return fmt.Errorf("could not load order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line      domain.OrderLine
			productID sql.NullInt64
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &productID, &line.Quantity); err != nil {
			return fmt.Errorf("error scanning order line: %w", err)
		}
		if productID.Valid {
			id := productID.Int64
			line.ProductID = &id
		}
		if order, ok := byID[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order lines: %w", err)
	}
	return nil
}
