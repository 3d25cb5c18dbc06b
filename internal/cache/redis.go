// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// unlinkBatch is the number of scanned keys removed per UNLINK.
const unlinkBatch = 100

// RedisCache keeps public payloads in Redis so that every server instance
// behind a load balancer invalidates the same entries.
type RedisCache struct {
	rdb    *redis.Client
	ns     string
	ttl    time.Duration
	closed atomic.Bool
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	URL string
	// Prefix namespaces every key, for example "folio:".
	Prefix         string
	DefaultTTL     time.Duration
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisCacheOptions returns the options used when only a URL is given.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         "folio:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

func (o RedisCacheOptions) client() (*redis.Client, error) {
	if o.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	ro, err := redis.ParseURL(o.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	setIfPositive(&ro.DialTimeout, o.ConnectTimeout)
	setIfPositive(&ro.ReadTimeout, o.ReadTimeout)
	setIfPositive(&ro.WriteTimeout, o.WriteTimeout)
	if o.PoolSize > 0 {
		ro.PoolSize = o.PoolSize
	}
	return redis.NewClient(ro), nil
}

func setIfPositive(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// NewRedisCache connects and pings Redis, failing fast when it is unreachable.
func NewRedisCache(ctx context.Context, opts RedisCacheOptions) (*RedisCache, error) {
	rdb, err := opts.client()
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, rdb.Options().DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{rdb: rdb, ns: opts.Prefix, ttl: opts.DefaultTTL}, nil
}

func (c *RedisCache) open() error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

// Get returns the stored bytes for key or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	b, err := c.rdb.Get(ctx, c.ns+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.open(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.rdb.Set(ctx, c.ns+key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, c.ns+key).Err()
}

// DeleteByPrefix drops every key under prefix within this cache's namespace.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.unlinkMatching(ctx, c.ns+prefix+"*")
}

// Clear drops the whole namespace. Keys written by other applications to
// the same database are left alone.
func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.unlinkMatching(ctx, c.ns+"*")
}

// unlinkMatching walks the keyspace with SCAN and unlinks matches in batches.
func (c *RedisCache) unlinkMatching(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, unlinkBatch).Iterator()
	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.rdb.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return flush()
}

// Ping reports whether Redis answers.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Close is idempotent.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

var _ Cache = (*RedisCache)(nil)
