package cache

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{Symbol: "VWCE", Value: 1.5}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, "VWCE", got.Symbol)
	assert.Equal(t, 1.5, got.Value)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got payload
	err := mc.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{Symbol: "VWCE"}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var got payload
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)

	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxEntries(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", payload{}, time.Minute))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", payload{}, time.Minute))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", payload{}, time.Minute))

	ok, err := mc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mc.Exists(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheCloseReleasesSweeper(t *testing.T) {
	before := runtime.NumGoroutine()

	caches := make([]*MemoryCache, 0, 10)
	for i := 0; i < 10; i++ {
		caches = append(caches, NewMemoryCache(WithMemorySweepInterval(time.Hour)))
	}
	for _, mc := range caches {
		require.NoError(t, mc.Close())
		require.NoError(t, mc.Close()) // idempotent
	}

	// Give the released goroutines a moment to unwind.
	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before+1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before+1)
}

func TestGenerateKeyWithParams(t *testing.T) {
	key := GenerateKeyWithParams("metrics", "VWCE", 1704067200)
	assert.Equal(t, "metrics:VWCE:1704067200", key)
}
