package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjranagit/queryeditor/pkg/types"
)

func TestStoreReplaceAndList(t *testing.T) {
	cfg := &Config{
		Path:             t.TempDir(),
		CompressionLevel: 3,
	}

	store, err := Open(cfg, nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	empty, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Replace(ctx, Builtin()))

	got, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, Builtin(), got)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, len(Builtin()), n)
}

func TestStoreReplaceShrinks(t *testing.T) {
	store, err := Open(&Config{InMemory: true, CompressionLevel: 1}, nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, Builtin()))

	smaller := []types.Scenario{
		{ID: "manual_entry", Name: "Manual Entry"},
		{ID: "random_walk", Name: "Random Walk"},
		{ID: "random_walk", Name: "Shadowed"},
	}
	require.NoError(t, store.Replace(ctx, smaller))

	got, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller, got, "order and duplicates are preserved")
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(&Config{Path: dir, CompressionLevel: 4}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Replace(ctx, []types.Scenario{{ID: "slow_query", Name: "Slow Query", StringInput: "5s"}}))
	require.NoError(t, store.Close())

	store, err = Open(&Config{Path: dir, CompressionLevel: 2}, nil)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "5s", got[0].StringInput)
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	store, err := Open(&Config{InMemory: true, CompressionLevel: 3}, nil)
	require.NoError(t, err)
	defer store.Close()

	err = store.Replace(context.Background(), []types.Scenario{{Name: "no id"}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.ListScenarios(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenRejectsBadCompressionLevel(t *testing.T) {
	_, err := Open(&Config{InMemory: true, CompressionLevel: 9}, nil)
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	s := NewStatic(nil)
	got, err := s.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Builtin(), got)

	got[0].Name = "mutated"
	again, _ := s.ListScenarios(context.Background())
	assert.Equal(t, "Random Walk", again[0].Name)

	custom := NewStatic([]types.Scenario{})
	got, err = custom.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
