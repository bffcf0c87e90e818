package apperrors

import (
	"errors"
	"fmt"
)

// ErrNoValidItems is returned when an order request contains no item
// with a positive quantity after filtering.
var ErrNoValidItems = errors.New("order contains no valid items")

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError indicates a requested quantity exceeds the
// available stock of a product. The whole order is rejected.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// ConflictError indicates a concurrent stock change was detected at
// write time and the transaction was rolled back.
type ConflictError struct {
	ProductID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stock for product %d changed concurrently, order aborted", e.ProductID)
}
