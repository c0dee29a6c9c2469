package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type entry struct {
	product Product
	invalid error
}

// Catalog is the in-memory product list. It is the only writer of stock
// fields and persists the full list after every stock change.
type Catalog struct {
	mu      sync.RWMutex
	store   recordstore.Store[Product]
	entries []entry
	seed    func() []Product
}

type Option func(*Catalog)

// WithSeed replaces the starter catalog used when nothing can be loaded.
func WithSeed(seed func() []Product) Option {
	return func(c *Catalog) {
		if seed != nil {
			c.seed = seed
		}
	}
}

// Open loads the catalog from store. A missing or unreadable collection is
// replaced by the seed products, which are written back immediately.
func Open(ctx context.Context, store recordstore.Store[Product], opts ...Option) (*Catalog, error) {
	if store == nil {
		return nil, errors.New("product store is required")
	}

	c := &Catalog{
		store: store,
		seed:  DefaultProducts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	records, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			log.Info().Msg("product catalog not found, seeding defaults")
		} else {
			log.Warn().Err(err).Msg("product catalog unreadable, seeding defaults")
		}
		records = c.seed()
		c.entries = buildEntries(records)
		if err := c.persistLocked(ctx); err != nil {
			log.Error().Err(err).Msg("failed to save seeded product catalog")
		}
		return c, nil
	}

	c.entries = buildEntries(records)
	log.Info().Int("products", c.countValid()).Int("quarantined", len(c.entries)-c.countValid()).Msg("product catalog loaded")
	return c, nil
}

func buildEntries(records []Product) []entry {
	entries := make([]entry, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, p := range records {
		p = p.clone()
		err := p.Validate()
		if err == nil {
			if _, dup := seen[p.ID]; dup {
				err = fmt.Errorf("%w: duplicate id %s", ErrInvalidProduct, p.ID)
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("product_id", p.ID).Msg("quarantined product record")
			entries = append(entries, entry{product: p, invalid: err})
			continue
		}
		seen[p.ID] = struct{}{}
		p.syncAvailability()
		entries = append(entries, entry{product: p})
	}
	return entries
}

func (c *Catalog) countValid() int {
	n := 0
	for _, e := range c.entries {
		if e.invalid == nil {
			n++
		}
	}
	return n
}

// Products returns every valid product, in stock or not, in catalog order.
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, 0, len(c.entries))
	for _, e := range c.entries {
		if e.invalid == nil {
			out = append(out, e.product.clone())
		}
	}
	return out
}

// InStock returns the products currently available for sale.
func (c *Catalog) InStock() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, 0, len(c.entries))
	for _, e := range c.entries {
		if e.invalid == nil && e.product.InStock {
			out = append(out, e.product.clone())
		}
	}
	return out
}

func (c *Catalog) GetByID(id string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.entries[idx].product.clone(), nil
}

// Categories returns the sorted distinct categories of in-stock products.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := make(map[string]struct{})
	for _, e := range c.entries {
		if e.invalid != nil || !e.product.InStock {
			continue
		}
		set[e.product.Category] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for category := range set {
		out = append(out, category)
	}
	slices.Sort(out)
	return out
}

// DeductStock lowers stock by quantity, floored at zero, and persists the
// catalog. The in-memory change is kept even when persisting fails.
func (c *Catalog) DeductStock(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	p := &c.entries[idx].product
	p.StockQuantity = max(0, p.StockQuantity-quantity)
	p.syncAvailability()

	if err := c.persistLocked(ctx); err != nil {
		return fmt.Errorf("deduct stock for %s: %w", id, err)
	}
	return nil
}

func (c *Catalog) indexOf(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i, e := range c.entries {
		if e.invalid == nil && e.product.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) persistLocked(ctx context.Context) error {
	records := make([]Product, 0, len(c.entries))
	for _, e := range c.entries {
		records = append(records, e.product)
	}
	return c.store.Save(ctx, records)
}
