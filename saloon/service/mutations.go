package service

import (
	"context"

	"github.com/saloonhub/saloonstore/saloon"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/marshaled"
	"go.uber.org/zap"
)

// Create stores a new saloon owned by owner. The payload is
// validated before an id is allocated so a rejected payload
// never consumes one.
func (service *Service) Create(ctx context.Context, owner string, payload saloon.SaloonPayload) (saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "Create").With(zap.String("owner", owner))
	logger.Debug("start", zap.Any("payload", payload))

	var result saloon.Saloon

	err := payload.Validate()

	if err == nil {
		err = saloon.ValidateOwner(owner)
	}

	if err == nil {
		err = service.update(ctx, func(txn kv.Transaction, saloons *marshaled.Txn[saloon.Saloon]) error {
			id, err := service.ids.Next(txn)

			if err != nil {
				return err
			}

			s := saloon.Saloon{
				ID:        id,
				Owner:     owner,
				Name:      payload.Name,
				Location:  payload.Location,
				SaloonURL: payload.SaloonURL,
				Services:  []saloon.SaloonService{},
				CreatedAt: service.clock.Now(),
			}

			if _, _, err := saloons.Insert(id, s); err != nil {
				return err
			}

			result = s

			return nil
		})
	}

	err = wrapError("could not create saloon", err)
	finish(logger, err, zap.Uint64("id", result.ID))

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}

// Update overwrites the name, location and url of a saloon.
// Validation happens before lookup, so a bad payload is reported
// even when the saloon does not exist.
func (service *Service) Update(ctx context.Context, owner string, id uint64, payload saloon.SaloonPayload) (saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "Update").With(zap.String("owner", owner), zap.Uint64("id", id))
	logger.Debug("start", zap.Any("payload", payload))

	var result saloon.Saloon

	err := payload.Validate()

	if err == nil {
		result, err = service.modify(ctx, owner, id, "update", func(s *saloon.Saloon, _ uint64) error {
			s.Name = payload.Name
			s.Location = payload.Location
			s.SaloonURL = payload.SaloonURL

			return nil
		})
	}

	err = wrapError("could not update saloon", err)
	finish(logger, err)

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}

// AddService appends a new service to a saloon
func (service *Service) AddService(ctx context.Context, owner string, id uint64, payload saloon.ServicePayload) (saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "AddService").With(zap.String("owner", owner), zap.Uint64("id", id))
	logger.Debug("start", zap.Any("payload", payload))

	var result saloon.Saloon

	err := payload.Validate()

	if err == nil {
		result, err = service.modify(ctx, owner, id, "add a service to", func(s *saloon.Saloon, now uint64) error {
			s.Services = append(s.Services, saloon.SaloonService{
				ServiceName:        payload.ServiceName,
				ServiceDescription: payload.ServiceDescription,
				CreatedAt:          now,
			})

			return nil
		})
	}

	err = wrapError("could not add service", err)
	finish(logger, err)

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}

// DeleteService removes every service of a saloon called name.
// It returns a NotFound error naming the service if there is none.
func (service *Service) DeleteService(ctx context.Context, owner string, id uint64, name string) (saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "DeleteService").With(zap.String("owner", owner), zap.Uint64("id", id))
	logger.Debug("start", zap.String("service", name))

	result, err := service.modify(ctx, owner, id, "delete a service from", func(s *saloon.Saloon, _ uint64) error {
		if s.RemoveServices(name) == 0 {
			return saloon.NotFound("service %q not found in saloon with id=%d", name, id)
		}

		return nil
	})

	err = wrapError("could not delete service", err)
	finish(logger, err)

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}

// Delete removes a saloon and returns it. The saloon is removed
// before ownership is checked; if the caller is not the owner it
// is put back unchanged in the same transaction, which is then
// rolled back as well.
func (service *Service) Delete(ctx context.Context, owner string, id uint64) (saloon.Saloon, error) {
	logger := service.operationLogger(ctx, "Delete").With(zap.String("owner", owner), zap.Uint64("id", id))
	logger.Debug("start")

	var result saloon.Saloon

	err := service.update(ctx, func(txn kv.Transaction, saloons *marshaled.Txn[saloon.Saloon]) error {
		s, ok, err := saloons.Remove(id)

		if err != nil {
			return err
		}

		if !ok {
			return saloon.NotFound("couldn't delete a saloon with id=%d. saloon not found", id)
		}

		if s.Owner != owner {
			if _, _, err := saloons.Insert(id, s); err != nil {
				return err
			}

			return saloon.NotAuthorized("you are not the owner of saloon with id=%d", id)
		}

		result = s

		return nil
	})

	err = wrapError("could not delete saloon", err)
	finish(logger, err)

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}

// modify loads a saloon, checks that owner owns it, applies fn and
// stores the result with UpdatedAt set. The clock is read once and
// the same instant is passed to fn. Any error from fn aborts the
// transaction.
func (service *Service) modify(ctx context.Context, owner string, id uint64, action string, fn func(s *saloon.Saloon, now uint64) error) (saloon.Saloon, error) {
	var result saloon.Saloon

	err := service.update(ctx, func(txn kv.Transaction, saloons *marshaled.Txn[saloon.Saloon]) error {
		s, ok, err := saloons.Get(id)

		if err != nil {
			return err
		}

		if !ok {
			return saloon.NotFound("couldn't %s a saloon with id=%d. saloon not found", action, id)
		}

		if s.Owner != owner {
			return saloon.NotAuthorized("you are not the owner of saloon with id=%d", id)
		}

		now := service.clock.Now()

		if err := fn(&s, now); err != nil {
			return err
		}

		s.UpdatedAt = saloon.Timestamp(now)

		if _, _, err := saloons.Insert(id, s); err != nil {
			return err
		}

		result = s

		return nil
	})

	if err != nil {
		return saloon.Saloon{}, err
	}

	return result, nil
}
