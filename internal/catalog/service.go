package catalog

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type Fetcher interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// Service fronts the remote catalog with a cache. Concurrent misses are
// collapsed into a single upstream fetch.
type Service struct {
	fetcher Fetcher
	cache   Cache
	log     logrus.FieldLogger
	sfg     singleflight.Group
}

func NewService(fetcher Fetcher, cache Cache, log logrus.FieldLogger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		log:     log,
	}
}

func (s *Service) Products(ctx context.Context) ([]Product, error) {
	v, err, _ := s.sfg.Do(cacheKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.log.WithError(err).Warn("catalog cache get failed")
		}

		products, err = s.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), products); errSet != nil {
				s.log.WithError(errSet).Warn("catalog cache set failed")
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]Product), nil
}
