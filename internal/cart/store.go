package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant-site/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Store loads and saves carts by session id. Loading an unknown session
// yields an empty cart.
type Store interface {
	Load(ctx context.Context, session string) (*Cart, error)
	Save(ctx context.Context, session string, c *Cart) error
	Delete(ctx context.Context, session string) error
}

type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, session string) (*Cart, error) {
	m.mu.Lock()
	data, ok := m.carts[session]
	m.mu.Unlock()

	c := New()
	if !ok {
		return c, nil
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", session, err)
	}
	return c, nil
}

func (m *MemoryStore) Save(ctx context.Context, session string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[session] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, session string) error {
	m.mu.Lock()
	delete(m.carts, session)
	m.mu.Unlock()
	return nil
}

const keyPrefix = "cart:"

// RedisStore keeps each cart as a JSON value that expires ttl after the last
// save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, session string) (*Cart, error) {
	data, err := r.client.Get(ctx, keyPrefix+session).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", session, err)
	}

	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", session, err)
	}
	return c, nil
}

func (r *RedisStore) Save(ctx context.Context, session string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyPrefix+session, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", session, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, session string) error {
	if err := r.client.Del(ctx, keyPrefix+session).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", session, err)
	}
	return nil
}
