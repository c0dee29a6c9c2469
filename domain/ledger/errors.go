package ledger

import (
	"errors"
	"fmt"

	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
)

var (
	ErrProductNotFound   = catalog.ErrProductNotFound
	ErrInvalidQuantity   = catalog.ErrInvalidQuantity
	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderIDExhausted  = errors.New("could not allocate a unique order id")
)

// StockError carries the product details needed to explain a rejected order.
// It unwraps to ErrOutOfStock or ErrInsufficientStock.
type StockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
	reason      error
}

func (e *StockError) Error() string {
	if errors.Is(e.reason, ErrOutOfStock) {
		return fmt.Sprintf("%v: %s", e.reason, e.ProductID)
	}
	return fmt.Sprintf("%v: %s has %d, requested %d", e.reason, e.ProductID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error {
	return e.reason
}
