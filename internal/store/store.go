package store

import (
	"context"
	"errors"
)

// Well-known keys. The cart key holds the live cart mirror, the orders key
// holds the append-only orders log.
const (
	KeyCart   = "cart"
	KeyOrders = "orders"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key-value boundary the cart engine and orders log
// write through. Values are opaque JSON blobs; the store never inspects them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
