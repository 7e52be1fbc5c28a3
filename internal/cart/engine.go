package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/redbuilds/storefront/internal/catalog"
	"github.com/redbuilds/storefront/internal/store"
)

// Engine owns the live cart for the session. All mutations go through it and
// are written through to the store before returning, so the persisted cart
// always equals the in-memory one.
type Engine struct {
	mu        sync.Mutex
	items     []Line
	store     store.Store
	log       logrus.FieldLogger
	observers []func(itemCount int)
}

func NewEngine(st store.Store, log logrus.FieldLogger) *Engine {
	return &Engine{
		store: st,
		log:   log,
	}
}

// Subscribe registers a callback invoked with the new item count after every
// successful mutation. The presentation layer uses it for the cart badge.
func (e *Engine) Subscribe(fn func(itemCount int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Load restores the cart persisted by a previous session. Called once at
// startup. A missing or malformed record loads as an empty cart; corruption
// is logged, never surfaced.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, err := e.store.Get(ctx, store.KeyCart)
	if errors.Is(err, store.ErrKeyNotFound) {
		return
	}
	if err != nil {
		e.log.WithError(err).Warn("could not load stored cart, starting empty")
		return
	}

	var items []Line
	if err := json.Unmarshal(raw, &items); err != nil {
		e.log.WithError(err).Warn("stored cart is corrupted, starting empty")
		return
	}

	// A stored line with a non-positive quantity should never exist; drop it
	// rather than resurrect it.
	for _, l := range items {
		if l.Quantity >= 1 {
			e.items = append(e.items, l)
		}
	}
}

// AddItem merges the product into the cart: an existing line's quantity grows
// by one, otherwise a new line is appended with quantity 1 and the product's
// price snapshotted.
func (e *Engine) AddItem(ctx context.Context, p catalog.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == p.ID {
			e.items[i].Quantity++
			return e.persistLocked(ctx)
		}
	}

	e.items = append(e.items, Line{
		ID:         p.ID,
		Title:      p.Title,
		PriceMinor: p.PriceMinor,
		Image:      p.Image,
		Quantity:   1,
	})
	return e.persistLocked(ctx)
}

// UpdateQuantity sets the quantity of the matching line. A quantity of zero
// or less removes the line. An unknown id is a silent no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		return e.removeLocked(ctx, id)
	}

	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity = quantity
			return e.persistLocked(ctx)
		}
	}
	return nil
}

// RemoveItem deletes the matching line. Removing an absent id is not an
// error; the cart is persisted either way.
func (e *Engine) RemoveItem(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(ctx, id)
}

func (e *Engine) removeLocked(ctx context.Context, id int64) error {
	kept := e.items[:0]
	for _, l := range e.items {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	e.items = kept
	return e.persistLocked(ctx)
}

// Clear empties the cart and persists the empty state.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	return e.persistLocked(ctx)
}

// Total returns the cart total in minor units, zero for an empty cart.
func (e *Engine) Total() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Total(e.items)
}

// ItemCount returns the summed quantity across all lines.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Count(e.items)
}

// Snapshot returns a deep copy of the current lines in insertion order.
// Callers can hold it across later mutations.
func (e *Engine) Snapshot() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Line, len(e.items))
	copy(out, e.items)
	return out
}

func (e *Engine) persistLocked(ctx context.Context) error {
	lines := e.items
	if lines == nil {
		lines = []Line{}
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := e.store.Put(ctx, store.KeyCart, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}

	count := Count(e.items)
	for _, fn := range e.observers {
		fn(count)
	}
	return nil
}
