package tokenstore

import (
	"context"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

type redisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend returns a Backend that keeps all entries as fields of a
// single Redis hash. It suits programs that act on behalf of one user from
// several hosts.
func NewRedisBackend(client *redis.Client, key string) Backend {
	return &redisBackend{
		client: client,
		key:    key,
	}
}

func (r *redisBackend) Get(
	ctx context.Context,
	keys ...string,
) (map[string]string, error) {
	results, err := r.client.WithContext(ctx).HMGet(r.key, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading fields of %s", r.key)
	}
	values := map[string]string{}
	for i, result := range results {
		// Missing fields come back as nil
		if value, ok := result.(string); ok {
			values[keys[i]] = value
		}
	}
	return values, nil
}

func (r *redisBackend) Set(
	ctx context.Context,
	entries map[string]string,
) error {
	fields := make(map[string]interface{}, len(entries))
	for key, value := range entries {
		fields[key] = value
	}
	if err := r.client.WithContext(ctx).HMSet(r.key, fields).Err(); err != nil {
		return errors.Wrapf(err, "error writing fields of %s", r.key)
	}
	return nil
}

func (r *redisBackend) Delete(ctx context.Context, keys ...string) error {
	if err := r.client.WithContext(ctx).HDel(r.key, keys...).Err(); err != nil {
		return errors.Wrapf(err, "error deleting fields of %s", r.key)
	}
	return nil
}
