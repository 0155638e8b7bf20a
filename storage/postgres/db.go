// Package postgres implements the storage contracts on PostgreSQL through
// database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"holoholo/models"
	"holoholo/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB

	Users      *UserRepo
	Categories *CategoryRepo
	Products   *ProductRepo
	Reviews    *ReviewRepo
	Orders     *OrderRepo
}

var (
	_ storage.TxRunner   = (*Store)(nil)
	_ storage.Users      = (*UserRepo)(nil)
	_ storage.Categories = (*CategoryRepo)(nil)
	_ storage.Products   = (*ProductRepo)(nil)
	_ storage.Reviews    = (*ReviewRepo)(nil)
	_ storage.Orders     = (*OrderRepo)(nil)
)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		Users:      &UserRepo{q: db},
		Categories: &CategoryRepo{q: db},
		Products:   &ProductRepo{q: db},
		Reviews:    &ReviewRepo{q: db},
		Orders:     &OrderRepo{q: db},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn in one transaction, rolling back when fn fails or panics.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&checkoutTx{products: &ProductRepo{q: tx}, orders: &OrderRepo{q: tx}}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapError(err))
	}
	return nil
}

type checkoutTx struct {
	products *ProductRepo
	orders   *OrderRepo
}

func (t *checkoutTx) LockProduct(ctx context.Context, id int64) (*models.Product, error) {
	return t.products.getForUpdate(ctx, id)
}

func (t *checkoutTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	return t.products.decrementStock(ctx, productID, qty)
}

func (t *checkoutTx) CreateOrder(ctx context.Context, o *models.Order) error {
	return t.orders.create(ctx, o)
}

// mapError translates driver errors into storage sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		var kind error
		switch pqErr.Code.Name() {
		case "unique_violation":
			kind = storage.ErrDuplicate
		case "foreign_key_violation":
			kind = storage.ErrForeignKey
		case "check_violation":
			kind = storage.ErrCheck
		}
		if kind != nil {
			return &storage.ConstraintError{Kind: kind, Constraint: pqErr.Constraint, Err: err}
		}
	}
	return err
}
