// Package storage declares the data-access contracts the services depend on.
// Implementations live in subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"holoholo/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate wraps a unique constraint violation; see ConstraintError.
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("referenced record does not exist")
	ErrCheck      = errors.New("check constraint violated")
	// ErrInsufficientStock is returned by a conditional stock decrement that matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ConstraintError carries the constraint name of a violated integrity rule.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return e.Kind.Error() + " (" + e.Constraint + ")"
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type Categories interface {
	Create(ctx context.Context, c *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
	Count(ctx context.Context) (int64, error)
}

type Products interface {
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	Limit(ctx context.Context, n int) ([]models.Product, error)
	SearchByName(ctx context.Context, text string) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

type Reviews interface {
	Create(ctx context.Context, r *models.Review) error
	ListByProduct(ctx context.Context, productID int64) ([]models.Review, error)
}

type Orders interface {
	Get(ctx context.Context, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Recent(ctx context.Context, n int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

// Tx is the unit of work checkout runs in. Everything done through a Tx is
// committed or rolled back together.
type Tx interface {
	// LockProduct reads a product and holds it against concurrent checkout.
	LockProduct(ctx context.Context, id int64) (*models.Product, error)
	// DecrementStock subtracts qty only while stock >= qty.
	DecrementStock(ctx context.Context, productID int64, qty int) error
	// CreateOrder inserts the order and its items, filling in ids.
	CreateOrder(ctx context.Context, o *models.Order) error
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}
