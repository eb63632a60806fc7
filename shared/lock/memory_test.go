package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"housing/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), time.Second)

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			release, err := locker.Acquire(context.Background(), Key("reservation:room", "r1"))
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}

			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Empty(t, locker.(*memoryLocker).entries)
}

func TestMemoryLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), 20*time.Millisecond)

	releaseA, err := locker.Acquire(context.Background(), "reservation:room:a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locker.Acquire(context.Background(), "reservation:room:b")
	require.NoError(t, err)
	releaseB()
}

func TestMemoryLocker_TimesOut(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), 20*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "work-order:room:a")
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "work-order:room:a")
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release()

	again, err := locker.Acquire(context.Background(), "work-order:room:a")
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_ZeroWait(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), 0)

	for range 100 {
		release, err := locker.Acquire(context.Background(), "reservation:room:a", "reservation:room:b")
		require.NoError(t, err)

		_, err = locker.Acquire(context.Background(), "reservation:room:b")
		assert.ErrorIs(t, err, ErrBusy)

		release()
	}

	assert.Empty(t, locker.(*memoryLocker).entries)
}

func TestMemoryLocker_MultipleKeys(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), 20*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "reservation:room:b", "reservation:room:a", "reservation:room:b")
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "reservation:room:a")
	assert.ErrorIs(t, err, ErrBusy)

	release()

	assert.Empty(t, locker.(*memoryLocker).entries)
}

func TestMemoryLocker_PartialFailureReleasesHeldKeys(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), 20*time.Millisecond)

	holdB, err := locker.Acquire(context.Background(), "reservation:room:b")
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "reservation:room:a", "reservation:room:b")
	assert.ErrorIs(t, err, ErrBusy)

	releaseA, err := locker.Acquire(context.Background(), "reservation:room:a")
	require.NoError(t, err)

	releaseA()
	holdB()
}

func TestMemoryLocker_ContextCanceled(t *testing.T) {
	locker := NewMemory(mocks.NewOtel(), time.Second)

	release, err := locker.Acquire(context.Background(), "reservation:room:a")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locker.Acquire(ctx, "reservation:room:a")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalize([]string{"b", "", "a", "b"}))
	assert.Empty(t, normalize(nil))
}
