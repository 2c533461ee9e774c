// Package store persists the set of hidden players.
//
// Several backends implement the same Store interface:
//
//   - NullStore keeps nothing, hidden players are forgotten on restart
//   - MemoryStore keeps the set in process memory
//   - FileStore keeps the set in a JSON file next to the configuration
//   - RedisStore keeps the set in a Redis set shared by several proxies
//   - MongoStore keeps one document per hidden player
//
// Open picks the backend from a config.StoreConfig. Transient network
// failures of the remote backends are retried with exponential backoff.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/config"
	"github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/observability"
)

// Store persists hidden player IDs. Implementations are safe for
// concurrent use. Hide and Unhide are idempotent.
type Store interface {
	// Hide adds id to the hidden set.
	Hide(ctx context.Context, id uuid.UUID) error

	// Unhide removes id from the hidden set.
	Unhide(ctx context.Context, id uuid.UUID) error

	// Hidden returns the hidden set.
	Hidden(ctx context.Context) ([]uuid.UUID, error)

	// Close releases the backend's resources.
	Close() error
}

// Open creates the store selected by cfg. cfg must have been validated.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return NewNullStore(), nil
	case config.BackendMemory, "":
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.Path)
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
	case config.BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
}

// instrument runs op with retries and reports it to the store hooks. Errors
// that survive the retries are wrapped with ErrCodeStore.
func instrument(ctx context.Context, backend, op string, fn func() error) error {
	start := time.Now()
	err := retry(ctx, backend, op, fn)
	observability.Store().OnStoreOp(ctx, backend, op, time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "%s %s", backend, op)
	}
	return nil
}
