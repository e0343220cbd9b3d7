package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegrader_PrimarySuccess(t *testing.T) {
	d := NewDegrader[string]()

	v, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestDegrader_ServesFreshCacheOnFailure(t *testing.T) {
	d := NewDegrader[string]()

	_, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "cached-value", nil
	})
	require.NoError(t, err)

	v, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", errRemote
	})
	require.NoError(t, err)
	assert.Equal(t, "cached-value", v)
}

func TestDegrader_StaleCacheSkipped(t *testing.T) {
	d := NewDegrader[string]()
	base := time.Unix(1700000000, 0)
	d.now = func() time.Time { return base }

	_, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "old", nil
	})
	require.NoError(t, err)

	// Six minutes later the cache entry is past the 5 minute TTL.
	d.now = func() time.Time { return base.Add(6 * time.Minute) }

	_, err = d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", errRemote
	})
	assert.ErrorIs(t, err, errRemote)
}

func TestDegrader_FallbackAfterCacheMiss(t *testing.T) {
	d := NewDegrader[[]string]().WithFallback(func(ctx context.Context, key string) ([]string, error) {
		return []string{"fallback"}, nil
	})

	v, err := d.Execute(context.Background(), "jobs", func(ctx context.Context) ([]string, error) {
		return nil, errRemote
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fallback"}, v)
}

func TestDegrader_DefaultLastResort(t *testing.T) {
	d := NewDegrader[[]string]().
		WithFallback(func(ctx context.Context, key string) ([]string, error) {
			return nil, errRemote
		}).
		WithDefault([]string{})

	v, err := d.Execute(context.Background(), "jobs", func(ctx context.Context) ([]string, error) {
		return nil, errRemote
	})
	require.NoError(t, err, "a registered default means the chain never throws")
	assert.Empty(t, v)
}

func TestDegrader_NoTierServes(t *testing.T) {
	d := NewDegrader[string]()

	_, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", errRemote
	})
	assert.ErrorIs(t, err, errRemote)
}

func TestDegrader_PriorityCacheOverFallback(t *testing.T) {
	d := NewDegrader[string]().WithFallback(func(ctx context.Context, key string) (string, error) {
		return "fallback", nil
	})

	_, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "cached", nil
	})
	require.NoError(t, err)

	v, err := d.Execute(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", errRemote
	})
	require.NoError(t, err)
	assert.Equal(t, "cached", v, "cache tier outranks the fallback")
}
