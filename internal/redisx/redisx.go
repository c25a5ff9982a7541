package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct{ Rdb *redis.Client }

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Rdb.Close()
}

// GetJSON decodes the value at key into dst. A missing key is (false, nil).
func (c *Client) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.Rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Rdb.Set(ctx, key, b, ttl).Err()
}

func (c *Client) SetNX(ctx context.Context, key string, val string, ttl time.Duration) (bool, error) {
	return c.Rdb.SetNX(ctx, key, val, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.Rdb.Del(ctx, keys...).Err()
}
