// Package cache хранит последний запуск каждого pipeline в Redis.
//
// Кэш нужен UI, который опрашивает статус запуска: чтение последнего
// результата не затрагивает PostgreSQL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shaiso/Cardflow/internal/domain"
)

// ErrCacheMiss — записи нет (или истёк TTL).
var ErrCacheMiss = errors.New("cache miss")

const (
	keyPrefix = "cardflow:pipeline:"

	defaultTTL     = time.Hour
	defaultTimeout = 5 * time.Second
)

// LatestCache — кэш последнего запуска pipeline.
type LatestCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
}

// Config — конфигурация LatestCache.
type Config struct {
	Client  redis.UniversalClient
	TTL     time.Duration // время жизни записи (default: 1h)
	Timeout time.Duration // таймаут одной операции (default: 5s)
}

// New создаёт кэш поверх готового клиента.
func New(cfg Config) *LatestCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &LatestCache{
		client:  cfg.Client,
		ttl:     ttl,
		timeout: timeout,
	}
}

// Connect создаёт клиента по URL ("redis://host:6379/0") и проверяет соединение.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key возвращает ключ записи для pipeline.
func Key(pipelineID string) string {
	return keyPrefix + pipelineID + ":latest"
}

// SetLatest сохраняет запуск как последний для его pipeline.
func (c *LatestCache) SetLatest(ctx context.Context, exec *domain.PipelineExecution) error {
	data, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("marshal execution: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, Key(exec.PipelineID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// GetLatest возвращает последний запуск pipeline.
// Возвращает ErrCacheMiss, если записи нет.
func (c *LatestCache) GetLatest(ctx context.Context, pipelineID string) (*domain.PipelineExecution, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, Key(pipelineID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var exec domain.PipelineExecution
	if err := json.Unmarshal(data, &exec); err != nil {
		return nil, fmt.Errorf("unmarshal execution: %w", err)
	}
	return &exec, nil
}

// Invalidate удаляет запись pipeline.
func (c *LatestCache) Invalidate(ctx context.Context, pipelineID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.Del(ctx, Key(pipelineID)).Err()
}
