// Package orders keeps the append-only log of confirmed orders. The log is
// stored as a single JSON array; records are never mutated or deleted.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/redbuilds/storefront/internal/checkout"
	"github.com/redbuilds/storefront/internal/store"
)

type Log struct {
	store store.Store
	log   logrus.FieldLogger
}

func NewLog(st store.Store, log logrus.FieldLogger) *Log {
	return &Log{
		store: st,
		log:   log,
	}
}

// List returns every stored order in append order. A missing or corrupted
// log reads as empty; corruption is logged, not surfaced.
func (l *Log) List(ctx context.Context) ([]checkout.Order, error) {
	raw, err := l.store.Get(ctx, store.KeyOrders)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	var out []checkout.Order
	if err := json.Unmarshal(raw, &out); err != nil {
		l.log.WithError(err).Warn("orders log is corrupted, reading as empty")
		return nil, nil
	}
	return out, nil
}

// Append adds the order to the end of the log and persists the whole log.
func (l *Log) Append(ctx context.Context, order checkout.Order) error {
	existing, err := l.List(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(append(existing, order))
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	if err := l.store.Put(ctx, store.KeyOrders, raw); err != nil {
		return fmt.Errorf("persist orders: %w", err)
	}
	return nil
}
