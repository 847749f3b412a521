package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const cartItemSelect = `
        SELECT ci.id, ci.cart_id, ci.quantity,
               p.id, p.info, p.price, p.stock, p.image, p.category, p.sales_number
        FROM cart_items ci
        LEFT JOIN products p ON p.id = ci.product_id`

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

// scanCartItem reads one cart_items row joined with its product. All product
// columns are NULL when the product no longer exists.
func scanCartItem(row rowScanner) (*domain.CartItem, error) {
	var (
		item        domain.CartItem
		productID   sql.NullInt64
		info        sql.NullString
		price       decimal.NullDecimal
		stock       sql.NullInt64
		image       sql.NullString
		category    sql.NullString
		salesNumber sql.NullInt64
	)
	err := row.Scan(
		&item.ID, &item.CartID, &item.Quantity,
		&productID, &info, &price, &stock, &image, &category, &salesNumber,
	)
	if err != nil {
		return nil, err
	}

	if productID.Valid {
		item.Product = &domain.Product{
			ID:          productID.Int64,
			Info:        info.String,
			Price:       price.Decimal,
			Stock:       int(stock.Int64),
			Image:       image.String,
			Category:    domain.Category(category.String),
			SalesNumber: int(salesNumber.Int64),
		}
		item.ProductID = &item.Product.ID
	}
	return &item, nil
}

func (r *postgresCartRepository) GetOrCreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	query := `
        INSERT INTO carts (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING id, user_id`

	cart := &domain.Cart{}
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&cart.ID, &cart.UserID); err != nil {
		r.log.Errorf("Repository: Failed to get or create cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not get or create cart: %w", err)
	}
	cart.Items = []domain.CartItem{}

	r.log.Debugf("Repository: Resolved cart %d for user %d", cart.ID, userID)
	return cart, nil
}

func (r *postgresCartRepository) ListItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	return r.listItems(ctx, cartItemSelect+` WHERE ci.cart_id = $1 ORDER BY ci.id`, cartID)
}

func (r *postgresCartRepository) ListItemsForUpdate(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	return r.listItems(ctx, cartItemSelect+` WHERE ci.cart_id = $1 ORDER BY ci.id FOR UPDATE OF ci`, cartID)
}

func (r *postgresCartRepository) listItems(ctx context.Context, query string, cartID int64) ([]domain.CartItem, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, cartID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list items of cart %d: %v", cartID, err)
		return nil, fmt.Errorf("could not list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan cart item row: %v", err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during cart items iteration: %v", err)
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return items, nil
}

func (r *postgresCartRepository) GetItem(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	query := cartItemSelect + `
        JOIN carts c ON c.id = ci.cart_id
        WHERE ci.id = $1 AND c.user_id = $2`

	item, err := scanCartItem(conn(ctx, r.db).QueryRowContext(ctx, query, itemID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Cart item %d not found for user %d", itemID, userID)
			return nil, domain.NotFound("Cart item not found")
		}
		r.log.Errorf("Repository: Failed to get cart item %d: %v", itemID, err)
		return nil, fmt.Errorf("could not get cart item: %w", err)
	}
	return item, nil
}

func (r *postgresCartRepository) ItemExists(ctx context.Context, cartID, productID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cart_items WHERE cart_id = $1 AND product_id = $2)`

	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, cartID, productID).Scan(&exists); err != nil {
		r.log.Errorf("Repository: Failed to check product %d in cart %d: %v", productID, cartID, err)
		return false, fmt.Errorf("could not check cart item: %w", err)
	}
	return exists, nil
}

func (r *postgresCartRepository) CreateItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	if item.ProductID == nil {
		return nil, domain.NewValidationError("product", "This field is required")
	}
	query := `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`

	err := conn(ctx, r.db).QueryRowContext(ctx, query, item.CartID, *item.ProductID, item.Quantity).Scan(&item.ID)
	if err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			r.log.Warnf("Repository: Product %d already in cart %d", *item.ProductID, item.CartID)
			return nil, domain.ErrProductAlreadyInCart
		case pqForeignKeyViolation:
			r.log.Warnf("Repository: Product %d does not exist", *item.ProductID)
			return nil, domain.NotFound("product with id %d not found", *item.ProductID)
		case pqCheckViolation:
			return nil, domain.NewValidationError("quantity", "Quantity must be at least 1.")
		}
		r.log.Errorf("Repository: Failed to create cart item: %v", err)
		return nil, fmt.Errorf("could not create cart item: %w", err)
	}

	r.log.Infof("Repository: Cart item created successfully with ID: %d", item.ID)
	return item, nil
}

func (r *postgresCartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1 WHERE id = $2`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, quantity, itemID)
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			return domain.NewValidationError("quantity", "Quantity must be at least 1.")
		}
		r.log.Errorf("Repository: Failed to update cart item %d: %v", itemID, err)
		return fmt.Errorf("could not update cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read updated rows: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("Cart item not found")
	}

	r.log.Infof("Repository: Cart item %d quantity set to %d", itemID, quantity)
	return nil
}

func (r *postgresCartRepository) DeleteItem(ctx context.Context, userID, itemID int64) error {
	query := `
        DELETE FROM cart_items ci USING carts c
        WHERE ci.cart_id = c.id AND ci.id = $1 AND c.user_id = $2`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, itemID, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete cart item %d: %v", itemID, err)
		return fmt.Errorf("could not delete cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read deleted rows: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Repository: Cart item %d not found for user %d", itemID, userID)
		return domain.NotFound("Cart item not found")
	}

	r.log.Infof("Repository: Cart item %d deleted", itemID)
	return nil
}

func (r *postgresCartRepository) ClearItems(ctx context.Context, cartID int64, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND id = ANY($2)`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, cartID, pq.Array(itemIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to clear cart %d: %v", cartID, err)
		return 0, fmt.Errorf("could not clear cart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read cleared rows: %w", err)
	}

	r.log.Infof("Repository: Cleared %d items from cart %d", affected, cartID)
	return affected, nil
}
