package redis

import (
	"context"
	cacherepo "docmanager/internal/repositories/cache"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pkg = "redis/"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client adapts go-redis to cacherepo.KV.
type Client struct {
	rdb *redis.Client
}

// command is the part of a typed go-redis command the cache layer reads.
type command[T any] interface {
	Err() error
	Result() (T, error)
}

// missAsZero reports redis.Nil as a zero value with no error.
type missAsZero[T any] struct {
	cmd command[T]
}

func wrap[T any](cmd command[T]) cacherepo.Result[T] {
	return missAsZero[T]{cmd: cmd}
}

func (r missAsZero[T]) Err() error {
	if err := r.cmd.Err(); !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (r missAsZero[T]) Result() (T, error) {
	val, err := r.cmd.Result()
	if errors.Is(err, redis.Nil) {
		var zero T
		return zero, nil
	}
	return val, err
}

func (c *Client) Get(ctx context.Context, key string) cacherepo.Result[string] {
	return wrap[string](c.rdb.Get(ctx, key))
}

func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) cacherepo.Result[string] {
	return wrap[string](c.rdb.Set(ctx, key, value, expiration))
}

func (c *Client) Del(ctx context.Context, keys ...string) cacherepo.Result[int64] {
	return wrap[int64](c.rdb.Del(ctx, keys...))
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// New fails when the server does not answer a PING.
func New(ctx context.Context, cfg Config) (*Client, error) {
	op := pkg + "New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping %s: %w", op, cfg.Addr, err)
	}

	return &Client{rdb: rdb}, nil
}
