package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"housing/infras/otel"
	"housing/shared/constant"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "lock:"

// deletes the key only while it still holds our token
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisLocker struct {
	client *redis.Client
	otel   otel.Otel
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	token  func() string
}

// NewRedis returns a lock shared by every instance connected to the same Redis.
// Keys expire after ttl so a crashed holder cannot block a room forever.
func NewRedis(client *redis.Client, otl otel.Otel, ttl, wait, retry time.Duration) Locker {
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}

	return &redisLocker{
		client: client,
		otel:   otl,
		ttl:    ttl,
		wait:   wait,
		retry:  retry,
		token:  uuid.NewString,
	}
}

func (r *redisLocker) Acquire(ctx context.Context, keys ...string) (release Release, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".redis.Acquire")
	defer scope.End()
	defer scope.TraceIfError(&err)

	keys = normalize(keys)
	scope.SetAttribute("lock.keys", keys)

	token := r.token()
	deadline := time.Now().Add(r.wait)
	held := make([]string, 0, len(keys))

	for _, key := range keys {
		if err = r.lock(ctx, redisKeyPrefix+key, token, deadline); err != nil {
			r.unlockAll(context.WithoutCancel(ctx), held, token)

			return nil, err
		}

		held = append(held, redisKeyPrefix+key)
	}

	return once(func() { r.unlockAll(context.WithoutCancel(ctx), held, token) }), nil
}

func (r *redisLocker) lock(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to acquire redis lock")

			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if ok {
			return nil
		}

		if time.Now().Add(r.retry).After(deadline) {
			return ErrBusy
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to acquire lock %s: %w", key, ctx.Err())
		case <-time.After(r.retry):
		}
	}
}

func (r *redisLocker) unlockAll(ctx context.Context, keys []string, token string) {
	for i := len(keys) - 1; i >= 0; i-- {
		err := r.client.Eval(ctx, releaseScript, []string{keys[i]}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Str("key", keys[i]).Msg("failed to release redis lock, it will expire on its own")
		}
	}
}
