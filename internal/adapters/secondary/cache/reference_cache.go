// Package cache holds a Redis read-through cache for reference data.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/infrastructure/logging"
	"github.com/lorrc/task-analytics/internal/infrastructure/metrics"
)

// Reference data kinds, used for keys and metric labels.
const (
	KindRegion     = "region"
	KindLocation   = "location"
	KindCaseWorker = "case_worker"
)

// Cache lookup outcomes.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// missing marks a code the store has no description for.
const missing = ""

// Config configures the Redis connection.
type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// ReferenceCache decorates a ReferenceDataRepository with a Redis hash per
// kind. Redis failures are logged and fall through to the repository.
type ReferenceCache struct {
	client *redis.Client
	next   ports.ReferenceDataRepository
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

var _ ports.ReferenceDataRepository = (*ReferenceCache)(nil)
var _ ports.HealthChecker = (*ReferenceCache)(nil)

// NewClient opens a Redis client for cfg.
func NewClient(cfg Config) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// NewReferenceCache wraps next with client.
func NewReferenceCache(client *redis.Client, next ports.ReferenceDataRepository, cfg Config, logger *slog.Logger) *ReferenceCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "task-analytics:ref:"
	}
	return &ReferenceCache{
		client: client,
		next:   next,
		ttl:    ttl,
		prefix: prefix,
		logger: logger,
	}
}

func (c *ReferenceCache) RegionDescriptions(ctx context.Context, codes []string) (map[string]string, error) {
	return c.lookup(ctx, KindRegion, codes, c.next.RegionDescriptions)
}

func (c *ReferenceCache) LocationDescriptions(ctx context.Context, codes []string) (map[string]string, error) {
	return c.lookup(ctx, KindLocation, codes, c.next.LocationDescriptions)
}

func (c *ReferenceCache) CaseWorkerNames(ctx context.Context, ids []string) (map[string]string, error) {
	return c.lookup(ctx, KindCaseWorker, ids, c.next.CaseWorkerNames)
}

// Ping reports whether Redis answers.
func (c *ReferenceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

type loader func(ctx context.Context, codes []string) (map[string]string, error)

func (c *ReferenceCache) lookup(ctx context.Context, kind string, codes []string, load loader) (map[string]string, error) {
	out := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	key := c.prefix + kind
	values, err := c.client.HMGet(ctx, key, codes...).Result()
	if err != nil {
		metrics.ObserveCache(kind, ResultError)
		logging.LoggerFromContext(ctx, c.logger).WarnContext(ctx, "reference cache read failed",
			"kind", kind,
			"error", err,
		)
		return load(ctx, codes)
	}

	var misses []string
	for i, value := range values {
		s, ok := value.(string)
		if !ok {
			misses = append(misses, codes[i])
			continue
		}
		if s != missing {
			out[codes[i]] = s
		}
	}
	if len(misses) == 0 {
		metrics.ObserveCache(kind, ResultHit)
		return out, nil
	}
	metrics.ObserveCache(kind, ResultMiss)

	loaded, err := load(ctx, misses)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(misses))
	for _, code := range misses {
		description, ok := loaded[code]
		if ok {
			out[code] = description
		} else {
			description = missing
		}
		fields[code] = description
	}
	c.store(ctx, kind, key, fields)
	return out, nil
}

// store writes fields and starts the hash TTL when the hash is new, so a
// kind is refreshed from the database at least once per TTL.
func (c *ReferenceCache) store(ctx context.Context, kind, key string, fields map[string]any) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.ExpireNX(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		metrics.ObserveCache(kind, ResultError)
		logging.LoggerFromContext(ctx, c.logger).WarnContext(ctx, "reference cache write failed",
			"kind", kind,
			"error", err,
		)
	}
}
