package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"sea-u/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastReconnector() reconnector {
	r := newReconnector("test session", logger.Nop())
	r.minBackoff = time.Millisecond
	r.maxBackoff = 5 * time.Millisecond
	return r
}

func TestReconnectorRetriesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- fastReconnector().run(ctx, func(ctx context.Context) (bool, error) {
			if attempts.Add(1) < 4 {
				return false, errors.New("connection refused")
			}
			<-ctx.Done()
			return true, ctx.Err()
		})
	}()

	require.Eventually(t, func() bool { return attempts.Load() >= 4 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestReconnectorStopsOnClosedBus(t *testing.T) {
	var attempts int
	err := fastReconnector().run(context.Background(), func(ctx context.Context) (bool, error) {
		attempts++
		return true, ErrBusClosed
	})
	assert.ErrorIs(t, err, ErrBusClosed)
	assert.Equal(t, 1, attempts)
}

func TestRedisSourceKeepsRetryingUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	defer client.Close()
	bus := NewBus(0)
	defer bus.Close()

	src := NewRedisSource(client, bus, logger.Nop())
	src.retry = fastReconnector()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := src.Run(ctx)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}
