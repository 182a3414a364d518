package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

// AvailabilityCache stores computed slot grids per barber, day and procedure.
// Failures never surface: a broken cache behaves like an empty one.
type AvailabilityCache interface {
	Get(ctx context.Context, barberID uint, date string, procedureID uint) ([]domain.TimeSlot, bool)
	Set(ctx context.Context, barberID uint, date string, procedureID uint, slots []domain.TimeSlot)
	InvalidateDay(ctx context.Context, barberID uint, date string)
	InvalidateBarber(ctx context.Context, barberID uint)
}

// RedisAvailabilityCache keeps one hash per (barber, date) whose fields are
// procedure ids, so a booking drops every procedure's grid for that day at once.
type RedisAvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisAvailabilityCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{rdb: rdb, ttl: ttl, log: log}
}

func dayKey(barberID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", barberID, date)
}

func (c *RedisAvailabilityCache) Get(
	ctx context.Context,
	barberID uint,
	date string,
	procedureID uint,
) ([]domain.TimeSlot, bool) {

	raw, err := c.rdb.HGet(ctx, dayKey(barberID, date), strconv.FormatUint(uint64(procedureID), 10)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("availability cache read failed", zap.Error(err))
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("availability cache entry corrupt", zap.Error(err))
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return slots, true
}

func (c *RedisAvailabilityCache) Set(
	ctx context.Context,
	barberID uint,
	date string,
	procedureID uint,
	slots []domain.TimeSlot,
) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := dayKey(barberID, date)
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, strconv.FormatUint(uint64(procedureID), 10), raw)
		p.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.log.Warn("availability cache write failed", zap.Error(err))
	}
}

func (c *RedisAvailabilityCache) InvalidateDay(ctx context.Context, barberID uint, date string) {
	if err := c.rdb.Del(ctx, dayKey(barberID, date)).Err(); err != nil {
		c.log.Warn("availability cache invalidation failed",
			zap.Uint("barber_id", barberID),
			zap.String("date", date),
			zap.Error(err),
		)
	}
}

// InvalidateBarber drops every cached day of the barber; used when the
// weekly template changes.
func (c *RedisAvailabilityCache) InvalidateBarber(ctx context.Context, barberID uint) {
	pattern := fmt.Sprintf("availability:%d:*", barberID)

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.Warn("availability cache scan failed", zap.Uint("barber_id", barberID), zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn("availability cache invalidation failed", zap.Uint("barber_id", barberID), zap.Error(err))
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// NopAvailabilityCache is used when Redis is not configured.
type NopAvailabilityCache struct{}

func (NopAvailabilityCache) Get(context.Context, uint, string, uint) ([]domain.TimeSlot, bool) {
	return nil, false
}

func (NopAvailabilityCache) Set(context.Context, uint, string, uint, []domain.TimeSlot) {}

func (NopAvailabilityCache) InvalidateDay(context.Context, uint, string) {}

func (NopAvailabilityCache) InvalidateBarber(context.Context, uint) {}

var (
	_ AvailabilityCache = (*RedisAvailabilityCache)(nil)
	_ AvailabilityCache = NopAvailabilityCache{}
)
