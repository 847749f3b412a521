package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"legerity_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{"id", "user_id", "total_price", "status", "address", "zip_code", "phone_number", "created_at"}

func TestOrderRepository_CreateOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresOrderRepository(db, newTestLogger())

	productA, productB := int64(1), int64(2)
	order := &domain.Order{
		UserID:      7,
		TotalPrice:  decimal.RequireFromString("25.50"),
		Address:     "1 Main St",
		ZipCode:     "10001",
		PhoneNumber: "+19995550123",
		Lines: []domain.OrderLine{
			{ProductID: &productA, Quantity: 2},
			{ProductID: &productB, Quantity: 1},
		},
	}
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(int64(7), "25.5", domain.StatusPrepared, "1 Main St", "10001", "+19995550123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(40, createdAt))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_lines`)).
		WithArgs(int64(40), int64(1), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_lines`)).
		WithArgs(int64(40), int64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, int64(40), created.ID)
	assert.Equal(t, domain.StatusPrepared, created.Status)
	assert.Equal(t, createdAt, created.CreatedAt)
	require.Len(t, created.Lines, 2)
	assert.Equal(t, int64(101), created.Lines[1].ID)
	assert.Equal(t, int64(40), created.Lines[1].OrderID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateOrderRollsBackOnLineFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresOrderRepository(db, newTestLogger())

	productA := int64(1)
	order := &domain.Order{
		UserID:     7,
		TotalPrice: decimal.RequireFromString("10"),
		Lines:      []domain.OrderLine{{ProductID: &productA, Quantity: 1}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(41, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_lines`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = repo.CreateOrder(context.Background(), order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not insert order line")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetOrderByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresOrderRepository(db, newTestLogger())
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(40), int64(7)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(40, 7, "25.50", "Prepared", "1 Main St", "10001", "+19995550123", createdAt))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_lines WHERE order_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity"}).
			AddRow(100, 40, 1, 2).
			AddRow(101, 40, nil, 1))

	order, err := repo.GetOrderByID(context.Background(), 7, 40)
	require.NoError(t, err)
	assert.Equal(t, "25.50", order.TotalPrice.StringFixed(2))
	assert.Equal(t, domain.StatusPrepared, order.Status)
	require.Len(t, order.Lines, 2)
	require.NotNil(t, order.Lines[0].ProductID)
	assert.Equal(t, int64(1), *order.Lines[0].ProductID)
	assert.Nil(t, order.Lines[1].ProductID)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(40), int64(8)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err = repo.GetOrderByID(context.Background(), 8, 40)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListOrdersByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresOrderRepository(db, newTestLogger())
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`)).
		WithArgs(int64(7), 20, 0).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(42, 7, "5.00", "Delivered", "a", "b", "+19995550123", now).
			AddRow(40, 7, "25.50", "Prepared", "a", "b", "+19995550123", now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_lines WHERE order_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity"}).
			AddRow(100, 40, 1, 2).
			AddRow(101, 40, 2, 1).
			AddRow(102, 42, 3, 1))

	orders, err := repo.ListOrdersByUserID(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(42), orders[0].ID)
	assert.Len(t, orders[0].Lines, 1)
	assert.Len(t, orders[1].Lines, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListOrdersEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresOrderRepository(db, newTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE user_id = $1`)).
		WithArgs(int64(7), 20, 0).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	orders, err := repo.ListOrdersByUserID(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
	require.NoError(t, mock.ExpectationsWereMet())
}
