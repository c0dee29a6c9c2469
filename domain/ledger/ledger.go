package ledger

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

const maxIDAttempts = 16

// Inventory is the part of the catalog the ledger needs to place orders.
type Inventory interface {
	GetByID(id string) (catalog.Product, error)
	DeductStock(ctx context.Context, id string, quantity int) error
}

// Notifier is told about every confirmed order. Failures are logged only.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order Order) error
}

type NotifierFunc func(ctx context.Context, order Order) error

func (f NotifierFunc) OrderConfirmed(ctx context.Context, order Order) error {
	return f(ctx, order)
}

// Ledger is the append-only list of orders. Orders are never changed once
// appended.
type Ledger struct {
	mu        sync.Mutex
	store     recordstore.Store[Order]
	inventory Inventory
	notifier  Notifier
	orders    []Order
	ids       map[string]struct{}

	// quarantined holds stored orders that failed validation. They are
	// written back on every save but never served.
	quarantined []Order

	now  func() time.Time
	intN func(n int) int
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRandom sets the source for order id suffixes; intN must return [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(l *Ledger) {
		if intN != nil {
			l.intN = intN
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(l *Ledger) {
		l.notifier = n
	}
}

// Open loads the ledger. A missing or unreadable collection starts empty.
func Open(ctx context.Context, store recordstore.Store[Order], inventory Inventory, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("order store is required")
	}
	if inventory == nil {
		return nil, errors.New("inventory is required")
	}

	l := &Ledger{
		store:     store,
		inventory: inventory,
		now:       time.Now,
		intN:      rand.IntN,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	orders, err := store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, recordstore.ErrNotFound):
		orders = nil
	default:
		log.Warn().Err(err).Msg("order ledger unreadable, starting empty")
		orders = nil
	}

	l.orders = make([]Order, 0, len(orders))
	l.ids = make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o.ID != "" {
			l.ids[o.ID] = struct{}{}
		}
		if err := o.Validate(); err != nil {
			log.Warn().Err(err).Str("order_id", o.ID).Msg("quarantined order record")
			l.quarantined = append(l.quarantined, o)
			continue
		}
		l.orders = append(l.orders, o)
	}
	log.Info().Int("orders", len(l.orders)).Int("quarantined", len(l.quarantined)).Msg("order ledger loaded")
	return l, nil
}

// CreateOrder places a single-item order. Preconditions are checked in
// order: quantity, product existence, availability, then stock level.
//
// When the catalog or the ledger cannot be persisted the order is still
// appended in memory and returned together with an error wrapping
// recordstore.ErrPersistence.
func (l *Ledger) CreateOrder(ctx context.Context, productID string, quantity int) (Order, error) {
	if quantity < 1 {
		return Order{}, ErrInvalidQuantity
	}

	order, err := l.place(ctx, productID, quantity)
	if err != nil {
		return order, err
	}
	l.notify(ctx, order)
	return order, nil
}

// place runs the locked part of CreateOrder. Notification happens after
// the lock is released.
func (l *Ledger) place(ctx context.Context, productID string, quantity int) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	product, err := l.inventory.GetByID(productID)
	if err != nil {
		return Order{}, err
	}
	if !product.InStock {
		return Order{}, &StockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			reason:      ErrOutOfStock,
		}
	}
	if product.StockQuantity < quantity {
		return Order{}, &StockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   quantity,
			reason:      ErrInsufficientStock,
		}
	}

	now := l.now()
	id, err := l.nextID(now)
	if err != nil {
		return Order{}, err
	}
	order := newOrder(id, product, quantity, now)

	var persistErr error
	if err := l.inventory.DeductStock(ctx, product.ID, quantity); err != nil {
		if !errors.Is(err, recordstore.ErrPersistence) {
			return Order{}, err
		}
		persistErr = err
	}

	l.orders = append(l.orders, order)
	l.ids[order.ID] = struct{}{}

	if err := l.store.Save(ctx, l.records()); err != nil {
		persistErr = errors.Join(persistErr, err)
	}
	if persistErr != nil {
		log.Error().Err(persistErr).Str("order_id", order.ID).Msg("order placed but not fully persisted")
		return order.clone(), persistErr
	}

	log.Info().
		Str("order_id", order.ID).
		Str("product_id", product.ID).
		Int("quantity", quantity).
		Str("total", order.Total.String()).
		Msg("order confirmed")

	return order.clone(), nil
}

func (l *Ledger) records() []Order {
	if len(l.quarantined) == 0 {
		return l.orders
	}
	return append(slices.Clone(l.orders), l.quarantined...)
}

func (l *Ledger) nextID(now time.Time) (string, error) {
	for range maxIDAttempts {
		id := FormatOrderID(now, minIDSuffix+l.intN(idSuffixSpan))
		if _, taken := l.ids[id]; !taken {
			return id, nil
		}
	}
	return "", ErrOrderIDExhausted
}

func (l *Ledger) notify(ctx context.Context, order Order) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.OrderConfirmed(ctx, order.clone()); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("order notification failed")
	}
}

// LastOrder returns the most recently appended order.
func (l *Ledger) LastOrder() (Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.orders) == 0 {
		return Order{}, false
	}
	return l.orders[len(l.orders)-1].clone(), true
}

func (l *Ledger) Orders() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, o.clone())
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

// Get finds an order by id.
func (l *Ledger) Get(id string) (Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.orders, func(o Order) bool { return o.ID == id })
	if idx < 0 {
		return Order{}, false
	}
	return l.orders[idx].clone(), true
}
