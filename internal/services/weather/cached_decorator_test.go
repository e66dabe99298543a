package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/shakeeb2001/Weather-App/internal/services/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	entries map[string]models.Snapshot
	setErr  error
}

func (f *fakeCache) Set(_ context.Context, key string, value models.Snapshot, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string, returnValue *models.Snapshot) error {
	v, ok := f.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	*returnValue = v
	return nil
}

type countingFetcher struct {
	snap  models.Snapshot
	err   error
	calls int
}

func (c *countingFetcher) Fetch(context.Context, string) (models.Snapshot, error) {
	c.calls++
	return c.snap, c.err
}

func TestCachedClient(t *testing.T) {
	ctx := context.Background()
	snap := models.Snapshot{Location: "Colombo", TempKelvin: 300.15}

	t.Run("miss then hit", func(t *testing.T) {
		inner := &countingFetcher{snap: snap}
		cache := &fakeCache{entries: map[string]models.Snapshot{}}
		client := weather.NewCachedClient(inner, cache, discardLogger(), time.Minute)

		first, err := client.Fetch(ctx, "Colombo")
		require.NoError(t, err)
		second, err := client.Fetch(ctx, "Colombo")
		require.NoError(t, err)

		assert.Equal(t, snap, first)
		assert.Equal(t, snap, second)
		assert.Equal(t, 1, inner.calls, "second fetch served from cache")
	})

	t.Run("inner error propagates", func(t *testing.T) {
		inner := &countingFetcher{err: errors.New("api down")}
		cache := &fakeCache{entries: map[string]models.Snapshot{}}
		client := weather.NewCachedClient(inner, cache, discardLogger(), time.Minute)

		_, err := client.Fetch(ctx, "Colombo")
		require.Error(t, err)
	})

	t.Run("cache set error is not a fetch error", func(t *testing.T) {
		inner := &countingFetcher{snap: snap}
		cache := &fakeCache{entries: map[string]models.Snapshot{}, setErr: errors.New("redis gone")}
		client := weather.NewCachedClient(inner, cache, discardLogger(), time.Minute)

		got, err := client.Fetch(ctx, "Colombo")
		require.NoError(t, err)
		assert.Equal(t, snap, got)
	})
}
