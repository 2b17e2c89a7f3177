//go:build e2e

package cache_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/availability"
	"clinic-scheduler/internal/infra/cache"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func templateWith(t *testing.T, resourceID uuid.UUID, durationMinutes int) *availability.Template {
	t.Helper()
	nine, _ := availability.NewTimeOfDay(9, 0)
	noon, _ := availability.NewTimeOfDay(12, 0)
	tpl, err := availability.NewTemplate(resourceID, []availability.Session{
		{Weekday: time.Monday, Window: availability.DayWindow{Start: nine, End: noon}},
	}, availability.SlotConfiguration{DefaultDurationMinutes: durationMinutes, StepIntervalMinutes: 15})
	require.NoError(t, err)
	return tpl
}

func TestTemplateCacheFence(t *testing.T) {
	rdb := startRedis(t)
	c := cache.NewTemplateCache(rdb, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	t.Run("fill after a miss is served", func(t *testing.T) {
		id := uuid.New()
		_, fence, ok := c.Get(ctx, id)
		require.False(t, ok)
		assert.Equal(t, int64(0), fence)

		c.Fill(ctx, templateWith(t, id, 30), fence)

		got, _, ok := c.Get(ctx, id)
		require.True(t, ok)
		assert.Equal(t, 30, got.Config().DefaultDurationMinutes)
	})

	t.Run("fill racing an invalidation is dropped", func(t *testing.T) {
		id := uuid.New()
		_, fence, ok := c.Get(ctx, id)
		require.False(t, ok)

		stale := templateWith(t, id, 30)
		c.Invalidate(ctx, id)
		c.Fill(ctx, stale, fence)

		_, next, ok := c.Get(ctx, id)
		assert.False(t, ok)
		assert.Equal(t, fence+1, next)

		c.Fill(ctx, templateWith(t, id, 60), next)
		got, _, ok := c.Get(ctx, id)
		require.True(t, ok)
		assert.Equal(t, 60, got.Config().DefaultDurationMinutes)
	})

	t.Run("invalidation drops a cached entry", func(t *testing.T) {
		id := uuid.New()
		_, fence, _ := c.Get(ctx, id)
		c.Fill(ctx, templateWith(t, id, 30), fence)

		c.Invalidate(ctx, id)

		_, _, ok := c.Get(ctx, id)
		assert.False(t, ok)
	})
}
