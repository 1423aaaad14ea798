package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheServiceRoundTripRecordsMetrics(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(&stubCacheRepo{}, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out map[string]int
	hit, err := cache.Get(ctx, "grades:overview", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "grades:overview", map[string]int{"a": 1}, 0))
	hit, err = cache.Get(ctx, "grades:overview", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, out["a"])

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 1e-9)
	assert.InDelta(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio), 1e-9)
}

func TestCacheServiceInvalidateMatchesPatterns(t *testing.T) {
	repo := &stubCacheRepo{}
	cache := NewCacheService(repo, nil, 0, nil, true)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "grades:overview", 1, 0))
	require.NoError(t, cache.Set(ctx, "dashboard:summary:2024-05-01", 1, 0))
	require.NoError(t, cache.Set(ctx, "other", 1, 0))

	require.NoError(t, cache.Invalidate(ctx, gradesCachePattern, dashboardCachePattern))
	assert.Equal(t, []string{"grades:*", "dashboard:*"}, repo.invalidated)
	assert.Len(t, repo.store, 1)
	assert.Contains(t, repo.store, "other")
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := &stubCacheRepo{}
	cache := NewCacheService(repo, nil, time.Minute, nil, false)
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	require.NoError(t, cache.Set(ctx, "k", 1, 0))
	hit, err := cache.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.store)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.NoError(t, nilCache.Invalidate(ctx, "x"))
}

func TestCacheServiceGetError(t *testing.T) {
	repo := &stubCacheRepo{getErr: errors.New("boom")}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)

	hit, err := cache.Get(context.Background(), "k", new(int))
	assert.Error(t, err)
	assert.False(t, hit)
}
