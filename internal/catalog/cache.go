package catalog

import (
	"context"
	"errors"
)

type Cache interface {
	Get(ctx context.Context) ([]Product, error)
	Set(ctx context.Context, products []Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
