package infra_session_cache

import (
	"time"

	"github.com/go-redis/redis"
)

// Driver keeps identity sessions in redis under a shared namespace so
// they expire server-side with their TTL.
type Driver struct {
	client    *redis.Client
	namespace string
}

func New(
	client *redis.Client,
	namespace string,
) *Driver {
	return &Driver{
		client:    client,
		namespace: namespace,
	}
}

func (d *Driver) Set(key string, value string, ttl time.Duration) error {
	return d.client.Set(d.fullKey(key), value, ttl).Err()
}

// Get returns "" for unknown or expired keys; callers treat an empty
// value as an absent session.
func (d *Driver) Get(key string) (string, error) {
	val, err := d.client.Get(d.fullKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return val, nil
}

func (d *Driver) fullKey(key string) string {
	if d.namespace == "" {
		return key
	}
	return d.namespace + ":" + key
}
