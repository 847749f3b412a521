package db

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS users`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), database, logger))

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS users`)).
		WillReturnError(errors.New("permission denied"))
	err = Migrate(context.Background(), database, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed running migrations")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationSQLDefinesSchema(t *testing.T) {
	for _, table := range []string{"users", "products", "carts", "cart_items", "orders", "order_lines", "reviews"} {
		assert.Contains(t, migrationSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, migrationSQL, "UNIQUE (cart_id, product_id)")
	assert.Contains(t, migrationSQL, "CHECK (quantity > 0)")
}
