package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/metrics"
)

// defaultRedisEventRetention applies when no retention is configured.
const defaultRedisEventRetention = 24 * time.Hour

// RedisLimiter keeps each (action, actor) pair's events in a sorted set
// scored by unix milliseconds, so several API replicas share one sliding
// window. It follows the same check/record contract as DBLimiter.
type RedisLimiter struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	now       Clock
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
}

// NewRedisLimiter keeps events for retention, which must cover the longest
// window ever checked or older events are trimmed early.
func NewRedisLimiter(client *redis.Client, retention time.Duration, log logrus.FieldLogger, m *metrics.Metrics) *RedisLimiter {
	if retention <= 0 {
		retention = defaultRedisEventRetention
	}
	return &RedisLimiter{
		client:    client,
		prefix:    "ratelimit",
		retention: retention,
		now:       SystemClock,
		log:       log,
		metrics:   m,
	}
}

func (l *RedisLimiter) key(actorID, action string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, action, actorID)
}

func (l *RedisLimiter) WithinLimit(ctx context.Context, actorID, action string, limit int, window time.Duration) bool {
	windowStart := l.now().Add(-window).UnixMilli()

	count, err := l.client.ZCount(ctx, l.key(actorID, action), strconv.FormatInt(windowStart, 10), "+inf").Result()
	if err != nil {
		l.metrics.ObserveRateLimitStoreError()
		l.log.WithFields(logrus.Fields{
			"action": action,
			"error":  err.Error(),
		}).Warn("rate limit check failed, allowing request")
		return true
	}

	return count < int64(limit)
}

func (l *RedisLimiter) RecordEvent(ctx context.Context, actorID, action string) error {
	now := l.now()
	key := l.key(actorID, action)
	cutoff := now.Add(-l.retention).UnixMilli()

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: uuid.NewString(),
		})
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))
		pipe.Expire(ctx, key, l.retention)
		return nil
	})
	return err
}
