// Package lock serializes writers on the same room. Keys are opaque strings; callers
// namespace them so unrelated features never contend.
package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"housing/config"
	"housing/infras/otel"
	"housing/shared/failure"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrBusy is returned when a key could not be acquired within the wait timeout.
var ErrBusy = &failure.Failure{Code: http.StatusConflict, Message: "room is being modified, retry later"}

// Release frees every key taken by one Acquire call. Calling it more than once is a no-op.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

// Key joins a namespace and an id into a lock key.
func Key(namespace, id string) string {
	return namespace + ":" + id
}

// New builds the locker selected by BOOKING_LOCK_DRIVER.
func New(cfg *config.Config, client *redis.Client, otl otel.Otel) Locker {
	lockCfg := cfg.Booking.Lock
	wait := time.Duration(lockCfg.WaitMillis) * time.Millisecond

	if lockCfg.Driver == config.LockDriverRedis {
		log.Info().Str("driver", lockCfg.Driver).Msg("using distributed booking lock")

		return NewRedis(client, otl,
			time.Duration(lockCfg.TTLMillis)*time.Millisecond,
			wait,
			time.Duration(lockCfg.RetryEveryMilli)*time.Millisecond,
		)
	}

	log.Info().Str("driver", config.LockDriverMemory).Msg("using in-process booking lock")

	return NewMemory(otl, wait)
}

// normalize sorts and de-duplicates keys so that every caller takes them in the same order.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))

	for _, key := range keys {
		if strings.TrimSpace(key) != "" {
			out = append(out, key)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}

func once(fn func()) Release {
	var o sync.Once

	return func() { o.Do(fn) }
}
