package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"housing/infras/otel"
	"housing/shared/constant"
)

type entry struct {
	slot chan struct{}
	refs int
}

type memoryLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
	otel    otel.Otel
}

// NewMemory returns a keyed mutex table for single-instance deployments.
func NewMemory(otl otel.Otel, wait time.Duration) Locker {
	return &memoryLocker{
		entries: map[string]*entry{},
		wait:    wait,
		otel:    otl,
	}
}

func (m *memoryLocker) Acquire(ctx context.Context, keys ...string) (release Release, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".memory.Acquire")
	defer scope.End()
	defer scope.TraceIfError(&err)

	keys = normalize(keys)
	scope.SetAttribute("lock.keys", keys)

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	held := make([]string, 0, len(keys))

	for _, key := range keys {
		if err = m.lock(ctx, timer.C, key); err != nil {
			m.unlockAll(held)

			return nil, err
		}

		held = append(held, key)
	}

	return once(func() { m.unlockAll(held) }), nil
}

func (m *memoryLocker) lock(ctx context.Context, timeout <-chan time.Time, key string) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	// a free slot wins over an already fired timer
	select {
	case e.slot <- struct{}{}:
		return nil
	default:
	}

	select {
	case e.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.unref(key)

		return fmt.Errorf("failed to acquire lock %s: %w", key, ctx.Err())
	case <-timeout:
		m.unref(key)

		return ErrBusy
	}
}

func (m *memoryLocker) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		m.mu.Lock()
		e := m.entries[keys[i]]
		m.mu.Unlock()

		<-e.slot
		m.unref(keys[i])
	}
}

func (m *memoryLocker) unref(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entries[key]
	e.refs--

	if e.refs == 0 {
		delete(m.entries, key)
	}
}
