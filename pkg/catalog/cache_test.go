package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjranagit/queryeditor/pkg/types"
)

type countingLister struct {
	calls int
	err   error
}

func (l *countingLister) ListScenarios(ctx context.Context) ([]types.Scenario, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return []types.Scenario{{ID: "random_walk", Name: "Random Walk"}}, nil
}

func TestCachedTTL(t *testing.T) {
	src := &countingLister{}
	now := time.Unix(0, 0)
	cache := NewCached(src, time.Minute)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := cache.ListScenarios(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, src.calls)

	now = now.Add(2 * time.Minute)
	_, err := cache.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	hits, misses := cache.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)
	assert.Equal(t, 50.0, cache.HitRate())

	cache.Invalidate()
	_, err = cache.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	src := &countingLister{err: errors.New("down")}
	cache := NewCached(src, time.Hour)

	_, err := cache.ListScenarios(context.Background())
	assert.Error(t, err)
	_, err = cache.ListScenarios(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, src.calls)

	src.err = nil
	got, err := cache.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

type sharedLister struct {
	scenarios []types.Scenario
}

func (l *sharedLister) ListScenarios(ctx context.Context) ([]types.Scenario, error) {
	return l.scenarios, nil
}

func TestCachedReturnsCopies(t *testing.T) {
	src := &sharedLister{scenarios: []types.Scenario{{ID: "random_walk", Name: "Random Walk"}}}
	cache := NewCached(src, time.Hour)

	// the first call is a miss and must not hand out the source's slice
	first, err := cache.ListScenarios(context.Background())
	require.NoError(t, err)
	first[0].Name = "mutated"
	assert.Equal(t, "Random Walk", src.scenarios[0].Name)

	second, err := cache.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Random Walk", second[0].Name)
}
