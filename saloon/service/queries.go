package service

import (
	"context"

	"github.com/saloonhub/saloonstore/saloon"
	"github.com/saloonhub/saloonstore/storage/kv/marshaled"
	"go.uber.org/zap"
)

// List returns up to limit saloons in ascending id order after
// skipping the first offset. Out of range offsets yield an empty
// result rather than an error.
func (service *Service) List(ctx context.Context, offset uint64, limit uint64) ([]saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "List")
	logger.Debug("start", zap.Uint64("offset", offset), zap.Uint64("limit", limit))

	result := []saloon.Saloon{}

	err := service.view(ctx, func(saloons *marshaled.Txn[saloon.Saloon]) error {
		if limit == 0 {
			return nil
		}

		var skipped uint64

		return saloons.Iterate(func(id uint64, s saloon.Saloon) (bool, error) {
			if skipped < offset {
				skipped++

				return true, nil
			}

			result = append(result, s)

			return uint64(len(result)) < limit, nil
		})
	})

	err = wrapError("could not list saloons", err)
	finish(logger, err, zap.Int("count", len(result)))

	if err != nil {
		return nil, err
	}

	return result, nil
}

// Get returns the saloon with the given id
func (service *Service) Get(ctx context.Context, id uint64) (saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "Get").With(zap.Uint64("id", id))
	logger.Debug("start")

	var result saloon.Saloon

	err := service.view(ctx, func(saloons *marshaled.Txn[saloon.Saloon]) error {
		s, ok, err := saloons.Get(id)

		if err != nil {
			return err
		}

		if !ok {
			return saloon.NotFound("a saloon with id=%d not found", id)
		}

		result = s

		return nil
	})

	err = wrapError("could not get saloon", err)
	finish(logger, err)

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}

// SearchByName returns every saloon whose name is exactly name,
// in ascending id order
func (service *Service) SearchByName(ctx context.Context, name string) ([]saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "SearchByName")
	logger.Debug("start", zap.String("name", name))

	result, err := service.filter(ctx, func(s saloon.Saloon) bool { return s.Name == name })

	err = wrapError("could not search saloons", err)
	finish(logger, err, zap.Int("count", len(result)))

	return result, err
}

// SearchByLocation returns every saloon whose location is exactly
// location, in ascending id order
func (service *Service) SearchByLocation(ctx context.Context, location string) ([]saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "SearchByLocation")
	logger.Debug("start", zap.String("location", location))

	result, err := service.filter(ctx, func(s saloon.Saloon) bool { return s.Location == location })

	err = wrapError("could not search saloons", err)
	finish(logger, err, zap.Int("count", len(result)))

	return result, err
}

// Count returns the number of stored saloons
func (service *Service) Count(ctx context.Context) (uint64, error) {
	logger := service.operationLogger(ctx, "Count")
	logger.Debug("start")

	var n uint64

	err := service.view(ctx, func(saloons *marshaled.Txn[saloon.Saloon]) error {
		var err error

		n, err = saloons.Len()

		return err
	})

	err = wrapError("could not count saloons", err)
	finish(logger, err, zap.Uint64("count", n))

	if err != nil {
		return 0, err
	}

	return n, nil
}

func (service *Service) filter(ctx context.Context, match func(s saloon.Saloon) bool) ([]saloon.Saloon, error) {
	result := []saloon.Saloon{}

	err := service.view(ctx, func(saloons *marshaled.Txn[saloon.Saloon]) error {
		return saloons.Iterate(func(id uint64, s saloon.Saloon) (bool, error) {
			if match(s) {
				result = append(result, s)
			}

			return true, nil
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}
