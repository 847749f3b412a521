package repository

import (
	"context"
	"database/sql"
	"fmt"

	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type txKey struct{}

// executor is the part of *sql.DB and *sql.Tx the repositories use.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type postgresTransactor struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresTransactor(db *sql.DB, logger *logrus.Logger) domain.Transactor {
	return &postgresTransactor{
		db:  db,
		log: logger,
	}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// A ctx that already carries a transaction is reused as is.
func (t *postgresTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		t.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			t.log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			t.log.Warnf("Repository: Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				t.log.Errorf("Repository: Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				t.log.Errorf("Repository: Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}
