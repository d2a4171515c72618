// Package limiter bounds how many executions may run concurrently per
// language, using a Redis counter shared by every API instance.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
)

const slotKeyPrefix = "neocode:execslots:"

// releaseScript decrements the slot counter only while it is positive, so
// a release after the key expired cannot drive the counter negative.
var releaseScript = redis.NewScript(`
if tonumber(redis.call("GET", KEYS[1]) or "0") > 0 then
	return redis.call("DECR", KEYS[1])
end
return 0
`)

// HostLimiter grants at most max execution slots per language. The slot
// key carries a TTL so a crashed holder frees its slot eventually instead
// of leaking it forever.
type HostLimiter struct {
	rdb  *redis.Client
	max  int64
	ttl  time.Duration
	wait time.Duration
}

func New(rdb *redis.Client, max int, ttl time.Duration) *HostLimiter {
	if max < 1 {
		max = 1
	}
	return &HostLimiter{rdb: rdb, max: int64(max), ttl: ttl, wait: 50 * time.Millisecond}
}

func slotKey(lang model.Language) string {
	return slotKeyPrefix + string(lang)
}

// Acquire blocks until a slot for lang is free or ctx is done. Every
// successful Acquire must be paired with a Release.
func (l *HostLimiter) Acquire(ctx context.Context, lang model.Language) error {
	key := slotKey(lang)
	for {
		n, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("acquire execution slot for %s: %w", lang, err)
		}
		l.rdb.Expire(ctx, key, l.ttl)
		if n <= l.max {
			return nil
		}
		// Over capacity: undo our claim and wait for a holder to finish.
		if err := releaseScript.Run(ctx, l.rdb, []string{key}).Err(); err != nil {
			return fmt.Errorf("return execution slot for %s: %w", lang, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.wait):
		}
	}
}

// Release frees a slot taken by Acquire. It never blocks on a full
// queue and tolerates an already-expired key.
func (l *HostLimiter) Release(ctx context.Context, lang model.Language) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{slotKey(lang)}).Err(); err != nil {
		return fmt.Errorf("release execution slot for %s: %w", lang, err)
	}
	return nil
}
