package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

func TestDayKey(t *testing.T) {
	assert.Equal(t, "availability:4:2025-12-10", dayKey(4, "2025-12-10"))
}

func TestNopAvailabilityCache_AlwaysMisses(t *testing.T) {
	var c AvailabilityCache = NopAvailabilityCache{}
	ctx := context.Background()

	c.Set(ctx, 1, "2025-12-10", 2, []domain.TimeSlot{{Start: "09:00", End: "09:30"}})
	_, ok := c.Get(ctx, 1, "2025-12-10", 2)
	assert.False(t, ok)
}

// An unreachable server must degrade to a miss, never an error or panic.
func TestRedisAvailabilityCache_UnreachableIsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewRedisAvailabilityCache(rdb, time.Minute, zap.NewNop())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Set(ctx, 1, "2025-12-10", 2, []domain.TimeSlot{{Start: "09:00", End: "09:30"}})
		c.InvalidateDay(ctx, 1, "2025-12-10")
		c.InvalidateBarber(ctx, 1)
	})

	_, ok := c.Get(ctx, 1, "2025-12-10", 2)
	assert.False(t, ok)
}
