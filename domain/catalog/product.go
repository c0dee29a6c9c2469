package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const maxRating = 5.0

var ErrInvalidProduct = errors.New("invalid product record")

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Color         string          `json:"color,omitempty"`
	Material      string          `json:"material,omitempty"`
	Size          string          `json:"size,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	InStock       bool            `json:"in_stock"`
	StockQuantity int             `json:"stock_quantity"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"review_count"`
	Images        []string        `json:"images,omitempty"`
}

// Validate reports records that cannot take part in search or ordering.
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: id is empty", ErrInvalidProduct)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: product %s has no name", ErrInvalidProduct, p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: product %s has negative price", ErrInvalidProduct, p.ID)
	case p.StockQuantity < 0:
		return fmt.Errorf("%w: product %s has negative stock", ErrInvalidProduct, p.ID)
	case p.ReviewCount < 0:
		return fmt.Errorf("%w: product %s has negative review count", ErrInvalidProduct, p.ID)
	case p.Rating < 0 || p.Rating > maxRating:
		return fmt.Errorf("%w: product %s rating %.1f outside 0..5", ErrInvalidProduct, p.ID, p.Rating)
	}
	return nil
}

func (p Product) clone() Product {
	p.Tags = slices.Clone(p.Tags)
	p.Images = slices.Clone(p.Images)
	return p
}

// syncAvailability keeps InStock aligned with StockQuantity.
func (p *Product) syncAvailability() {
	p.InStock = p.StockQuantity > 0
}
