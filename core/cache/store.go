package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tags used by the services.
const (
	TagInventory = "inventory"
	TagSales     = "sales"
)

// Store is a JSON-serializing cache shared by the read-heavy services.
type Store interface {
	Load(ctx context.Context, key string, dst interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error
	Invalidate(ctx context.Context, tags ...string) error
}

// NewStore returns a redis-backed store when client is non-nil, otherwise the
// in-process one.
func NewStore(client *redis.Client) Store {
	if client != nil {
		return NewRedisStore(client, "repairshop:")
	}
	return NewMemoryStore(GetInstance())
}

type memoryStore struct {
	c *Cache
}

func NewMemoryStore(c *Cache) Store {
	return &memoryStore{c: c}
}

func (s *memoryStore) Load(_ context.Context, key string, dst interface{}) (bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v.([]byte), dst)
}

func (s *memoryStore) Save(_ context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.c.Set(key, b, ttl, tags)
	return nil
}

func (s *memoryStore) Invalidate(_ context.Context, tags ...string) error {
	for _, tag := range tags {
		s.c.DeleteByTag(tag)
	}
	return nil
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (s *redisStore) Save(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.prefix+key, b, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, s.tagKey(tag), s.prefix+key)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := s.rdb.SMembers(ctx, s.tagKey(tag)).Result()
		if err != nil {
			return err
		}
		keys = append(keys, s.tagKey(tag))
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *redisStore) tagKey(tag string) string {
	return s.prefix + "tag:" + tag
}
