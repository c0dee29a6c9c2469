package ledger

import (
	"errors"
	"fmt"
	"strings"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
)

const (
	StatusConfirmed        = "confirmed"
	DefaultShippingAddress = "To be provided"
	PaymentMethodVoice     = "Voice Order"

	orderIDLayout = "20060102-150405"
	minIDSuffix   = 1000
	idSuffixSpan  = 9000
)

// LineItem freezes the product details at the time of purchase.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Brand       string          `json:"brand"`
	Color       string          `json:"color"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Order struct {
	ID              string          `json:"id"`
	Items           []LineItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
}

var ErrInvalidOrder = errors.New("invalid order record")

// Validate checks a stored order before it is trusted by the ledger.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidOrder)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order %s has no items", ErrInvalidOrder, o.ID)
	}
	for i, item := range o.Items {
		switch {
		case strings.TrimSpace(item.ProductID) == "":
			return fmt.Errorf("%w: order %s item %d has no product id", ErrInvalidOrder, o.ID, i)
		case item.Quantity < 1:
			return fmt.Errorf("%w: order %s item %d has quantity %d", ErrInvalidOrder, o.ID, i, item.Quantity)
		case item.UnitPrice.IsNegative():
			return fmt.Errorf("%w: order %s item %d has negative price", ErrInvalidOrder, o.ID, i)
		}
	}
	if o.Total.IsNegative() {
		return fmt.Errorf("%w: order %s has negative total", ErrInvalidOrder, o.ID)
	}
	return nil
}

func (o Order) clone() Order {
	o.Items = slices.Clone(o.Items)
	return o
}

// FormatOrderID renders ORD-YYYYMMDD-HHMMSS-NNNN.
func FormatOrderID(at time.Time, suffix int) string {
	return fmt.Sprintf("ORD-%s-%04d", at.Format(orderIDLayout), suffix)
}

func newOrder(id string, p catalog.Product, quantity int, now time.Time) Order {
	item := LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		Currency:    p.Currency,
		Brand:       p.Brand,
		Color:       p.Color,
	}
	return Order{
		ID:              id,
		Items:           []LineItem{item},
		Total:           item.Subtotal(),
		Currency:        p.Currency,
		CreatedAt:       now,
		Status:          StatusConfirmed,
		ShippingAddress: DefaultShippingAddress,
		PaymentMethod:   PaymentMethodVoice,
	}
}
