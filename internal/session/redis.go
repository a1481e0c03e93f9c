package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vrksatech/market/internal/domain"
)

const redisKeyPrefix = "market:session:"

// RedisStore persists sessions in Redis so the gateway can run as more
// than one replica behind a load balancer.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store from a redis:// URL.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, "session.redis", "invalid redis URL")
	}

	return &RedisStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// Ping verifies connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return domain.WrapError(err, domain.EUNAVAILABLE, "session.redis", "redis unreachable")
	}
	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "session.redis", "failed to load session")
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, domain.Internal(err, "session.redis", "corrupt session record")
	}
	return &sess, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return domain.Internal(err, "session.redis", "failed to encode session")
	}

	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, payload, s.ttl).Err(); err != nil {
		return domain.WrapError(err, domain.EUNAVAILABLE, "session.redis", "failed to save session")
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return domain.WrapError(err, domain.EUNAVAILABLE, "session.redis", "failed to delete session")
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
