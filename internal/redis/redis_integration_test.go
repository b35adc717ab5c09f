package redis

import (
	"context"
	"testing"
	"time"

	"sea-u/internal/domain/user"
	"sea-u/internal/repository/memory"
	seau_errors "sea-u/pkg/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := NewClient(Config{Host: host, Port: port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, Ping(ctx, client))
	return client
}

func TestRedisComponents(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	t.Run("presence counts connections", func(t *testing.T) {
		presence := NewPresenceStore(client, time.Minute)
		id := uuid.New()

		require.NoError(t, presence.SetOnline(ctx, id))
		require.NoError(t, presence.SetOnline(ctx, id))

		offline, err := presence.SetOffline(ctx, id)
		require.NoError(t, err)
		assert.False(t, offline)
		online, err := presence.IsOnline(ctx, id)
		require.NoError(t, err)
		assert.True(t, online)

		offline, err = presence.SetOffline(ctx, id)
		require.NoError(t, err)
		assert.True(t, offline)

		flags, err := presence.OnlineMany(ctx, []uuid.UUID{id})
		require.NoError(t, err)
		assert.False(t, flags[id])
	})

	t.Run("rate limiter", func(t *testing.T) {
		cfg := DefaultRateLimitConfig()
		cfg.LookupLimit = 2
		limiter := NewRateLimiter(client, cfg)
		id := uuid.NewString()

		for i := 0; i < 2; i++ {
			res, err := limiter.AllowLookup(ctx, id)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}
		res, err := limiter.AllowLookup(ctx, id)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 2, res.Limit)
	})

	t.Run("kv store", func(t *testing.T) {
		kv := NewKVStore(client)
		_, err := kv.Get(ctx, "sea-u-settings:missing")
		assert.ErrorIs(t, err, seau_errors.ErrNotFound)

		require.NoError(t, kv.Set(ctx, "sea-u-settings:x", []byte(`{"darkMode":true}`)))
		got, err := kv.Get(ctx, "sea-u-settings:x")
		require.NoError(t, err)
		assert.JSONEq(t, `{"darkMode":true}`, string(got))
	})

	t.Run("profile cache invalidates on write", func(t *testing.T) {
		store := memory.New()
		cached := NewCachedProfileRepository(store.Profiles(), client, time.Minute)

		p := user.Profile{UserID: uuid.New(), DisplayName: "Dara", SeaID: "SEA-300001"}
		require.NoError(t, cached.Upsert(ctx, &p))

		got, err := cached.GetByUserID(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, "Dara", got.DisplayName)

		p.DisplayName = "Dara K."
		require.NoError(t, cached.Upsert(ctx, &p))

		batch, err := cached.GetByUserIDs(ctx, []uuid.UUID{p.UserID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, "Dara K.", batch[0].DisplayName)
	})
}
