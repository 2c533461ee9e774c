package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string // name of the Redis set
}

// RedisStore keeps the hidden set in a Redis set, so every proxy of a
// network sees the same hidden players.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (Store, error) {
	if cfg.Key == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "redis store needs a key")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s := &RedisStore{client: client, key: cfg.Key}
	if err := instrument(ctx, "redis", "ping", func() error {
		return transient(client.Ping(ctx).Err())
	}); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to redis at %s", cfg.Addr)
	}
	return s, nil
}

// Hide adds id to the Redis set.
func (s *RedisStore) Hide(ctx context.Context, id uuid.UUID) error {
	return instrument(ctx, "redis", "hide", func() error {
		return transient(s.client.SAdd(ctx, s.key, id.String()).Err())
	})
}

// Unhide removes id from the Redis set.
func (s *RedisStore) Unhide(ctx context.Context, id uuid.UUID) error {
	return instrument(ctx, "redis", "unhide", func() error {
		return transient(s.client.SRem(ctx, s.key, id.String()).Err())
	})
}

// Hidden returns the members of the Redis set. Members that are not valid
// UUIDs are ignored.
func (s *RedisStore) Hidden(ctx context.Context) ([]uuid.UUID, error) {
	var members []string
	err := instrument(ctx, "redis", "hidden", func() error {
		var err error
		members, err = s.client.SMembers(ctx, s.key).Result()
		return transient(err)
	})
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(members))
	for _, m := range members {
		if id, err := uuid.Parse(m); err == nil {
			set[id] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
