// Package service implements the saloon store: CRUD and search
// operations over a durable map of saloons keyed by identifiers
// from a durable allocator, with owner-based write authorization.
//
// Each operation runs inside one kv transaction while holding the
// service lock, so operations are serialized with respect to the
// stored state: mutations exclude everything else and queries only
// exclude mutations. A mutation that fails for any reason is rolled
// back and leaves the store exactly as it was.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/saloonhub/saloonstore/saloon"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/marshaled"
	"github.com/saloonhub/saloonstore/storage/sequence"
	"github.com/saloonhub/saloonstore/utils/clock"
	"github.com/saloonhub/saloonstore/utils/log"
	"go.uber.org/zap"
)

const (
	// DefaultMaxValueSize bounds the encoded size of one saloon
	DefaultMaxValueSize = 64 * 1024
)

var (
	idsBucket     = []byte("saloon_ids")
	saloonsBucket = []byte("saloons")
)

// Config contains configuration for a Service
type Config struct {
	// Store is the kv store the service takes ownership of.
	// It is closed by Service.Close.
	Store kv.Store
	// Logger defaults to zap.L()
	Logger *zap.Logger
	// Clock defaults to the system clock
	Clock clock.Clock
	// MaxValueSize bounds the encoded size of one saloon.
	// Defaults to DefaultMaxValueSize.
	MaxValueSize int
}

// Service is the saloon store. It owns the allocator and the
// saloon map; nothing else should write to their buckets.
type Service struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	store   kv.Store
	clock   clock.Clock
	ids     *sequence.Allocator
	saloons *marshaled.Map[saloon.Saloon]
}

// New creates a Service on top of config.Store, creating
// the buckets it needs if this is a fresh store
func New(config Config) (*Service, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("a store is required")
	}

	service := &Service{
		logger: config.Logger,
		store:  config.Store,
		clock:  config.Clock,
		ids:    sequence.New(idsBucket),
	}

	if service.logger == nil {
		service.logger = zap.L()
	}

	if service.clock == nil {
		service.clock = clock.NewSystem()
	}

	maxValueSize := config.MaxValueSize

	if maxValueSize == 0 {
		maxValueSize = DefaultMaxValueSize
	}

	service.saloons = marshaled.New[saloon.Saloon](saloonsBucket, saloon.Codec{}, maxValueSize)

	if err := kv.Update(service.store, func(txn kv.Transaction) error {
		if err := service.ids.Init(txn); err != nil {
			return err
		}

		return service.saloons.Init(txn)
	}); err != nil {
		return nil, wrapError("could not initialize store", err)
	}

	return service, nil
}

// Close closes the underlying store. It waits for
// in-flight operations to finish.
func (service *Service) Close() error {
	service.mu.Lock()
	defer service.mu.Unlock()

	return service.store.Close()
}

// update runs fn in a read-write transaction while holding the
// write lock. The transaction commits only if fn returns nil.
func (service *Service) update(ctx context.Context, fn func(txn kv.Transaction, saloons *marshaled.Txn[saloon.Saloon]) error) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return kv.Update(service.store, func(txn kv.Transaction) error {
		saloons, err := service.saloons.In(txn)

		if err != nil {
			return err
		}

		return fn(txn, saloons)
	})
}

// view runs fn in a read-only transaction while holding the read lock
func (service *Service) view(ctx context.Context, fn func(saloons *marshaled.Txn[saloon.Saloon]) error) error {
	service.mu.RLock()
	defer service.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return kv.View(service.store, func(txn kv.Transaction) error {
		saloons, err := service.saloons.In(txn)

		if err != nil {
			return err
		}

		return fn(saloons)
	})
}

// operationLogger prefers a logger carried by ctx over the service
// logger and adds the context fields and the operation name
func (service *Service) operationLogger(ctx context.Context, operation string) *zap.Logger {
	logger, ctx := log.LoggerFromContext(ctx, service.logger)

	return log.WithContext(ctx, logger).With(zap.String("operation", operation))
}

// finish logs the outcome of an operation. Caller errors are
// expected and logged at debug level, except for authorization
// failures. Anything else is an internal failure.
func finish(logger *zap.Logger, err error, fields ...zap.Field) {
	switch {
	case err == nil:
		logger.Debug("return", fields...)
	case errors.Is(err, saloon.ErrNotAuthorized):
		logger.Warn("caller is not the owner", zap.Error(err))
	case saloon.IsCallerError(err):
		logger.Debug("return", append(fields, zap.Error(err))...)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		logger.Info("aborted", zap.Error(err))
	default:
		logger.Error("internal error", zap.Error(err))
	}
}

// wrapError adds context to internal failures. Caller errors
// and context errors are returned as they are.
func wrapError(wrap string, err error) error {
	if err == nil || saloon.IsCallerError(err) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%s: %w", wrap, err)
}
