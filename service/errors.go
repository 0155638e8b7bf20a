// Package service holds the shop's use cases: catalog browsing, checkout,
// reviews, accounts and administration.
package service

import (
	"errors"
	"fmt"

	"holoholo/models"
	"holoholo/storage"
	"holoholo/validators"
)

var (
	ErrAuthentication        = errors.New("invalid username or password")
	ErrUnauthenticated       = errors.New("please log in to continue")
	ErrDuplicateRegistration = errors.New("already registered")
	ErrForbidden             = errors.New("access denied")
	ErrNotFound              = errors.New("not found")
	ErrEmptyCart             = errors.New("your cart is empty")
	ErrNoValidItems          = errors.New("no valid items in cart")
	ErrStockConflict         = errors.New("stock changed while placing the order, please try again")
)

// ValidationError reports malformed input for one field.
type ValidationError = validators.FieldError

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// DuplicateError names the field that is already taken.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "email" {
		return "email already registered"
	}
	return e.Field + " already exists"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// NoValidItemsError carries the per-line outcomes of a checkout that
// accepted nothing.
type NoValidItemsError struct {
	Lines []models.LineResult
}

func (e *NoValidItemsError) Error() string {
	return ErrNoValidItems.Error()
}

func (e *NoValidItemsError) Is(target error) bool {
	return target == ErrNoValidItems
}

// StorageError hides a persistence failure from callers while keeping it for logs.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrapStorage turns a repository error into a service error.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &StorageError{Op: op, Err: err}
}
