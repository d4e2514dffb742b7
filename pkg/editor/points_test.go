package editor

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjranagit/queryeditor/pkg/types"
)

func TestAddPointOrdering(t *testing.T) {
	points := []types.Point{{Value: 5, Timestamp: 2000}}

	points = AddPoint(points, 10, 1000)
	if diff := cmp.Diff([]types.Point{{Value: 10, Timestamp: 1000}, {Value: 5, Timestamp: 2000}}, points); diff != "" {
		t.Fatalf("after first insert (-want +got):\n%s", diff)
	}

	points = AddPoint(points, 7, 1000)
	want := []types.Point{{Value: 10, Timestamp: 1000}, {Value: 7, Timestamp: 1000}, {Value: 5, Timestamp: 2000}}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Fatalf("equal timestamp insert (-want +got):\n%s", diff)
	}

	unchanged, err := DeletePoint(points, 5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	if diff := cmp.Diff(want, unchanged); diff != "" {
		t.Fatalf("out of range delete changed points (-want +got):\n%s", diff)
	}
}

func TestAddPointDoesNotMutateInput(t *testing.T) {
	original := make([]types.Point, 2, 8)
	original[0] = types.Point{Value: 1, Timestamp: 300}
	original[1] = types.Point{Value: 2, Timestamp: 400}
	snapshot := append([]types.Point(nil), original...)

	next := AddPoint(original, 3, 100)

	assert.Equal(t, snapshot, original)
	assert.Len(t, next, 3)
	assert.Equal(t, int64(100), next[0].Timestamp)
}

func TestAddPointSortInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var points []types.Point

	for i := 0; i < 200; i++ {
		points = AddPoint(points, float64(i), rng.Int63n(50))
		for j := 1; j < len(points); j++ {
			require.LessOrEqual(t, points[j-1].Timestamp, points[j].Timestamp, "unsorted after insert %d", i)
			if points[j-1].Timestamp == points[j].Timestamp {
				// values are insertion counters, so equal timestamps must keep them ascending
				require.Less(t, points[j-1].Value, points[j].Value, "unstable after insert %d", i)
			}
		}
	}
}

func TestAddPointExpr(t *testing.T) {
	now := time.Date(2020, time.May, 12, 10, 0, 0, 0, time.UTC)
	points := []types.Point{{Value: 1, Timestamp: now.UnixMilli()}}

	next, err := AddPointExpr(points, 2, "now-1h", now)
	require.NoError(t, err)
	assert.Equal(t, []types.Point{
		{Value: 2, Timestamp: now.Add(-time.Hour).UnixMilli()},
		{Value: 1, Timestamp: now.UnixMilli()},
	}, next)

	same, err := AddPointExpr(points, 3, "yesterday-ish", now)
	require.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Equal(t, points, same)
}

func TestDeletePoint(t *testing.T) {
	points := []types.Point{{Value: 1, Timestamp: 1}, {Value: 2, Timestamp: 2}, {Value: 3, Timestamp: 3}}

	next, err := DeletePoint(points, 1)
	require.NoError(t, err)
	assert.Equal(t, []types.Point{{Value: 1, Timestamp: 1}, {Value: 3, Timestamp: 3}}, next)
	assert.Len(t, points, 3, "input must not shrink")
	assert.Equal(t, float64(2), points[1].Value, "input must not be modified")

	for _, idx := range []int{-1, 3, 100} {
		same, err := DeletePoint(points, idx)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange), "index %d", idx)
		assert.Equal(t, points, same)
	}

	_, err = DeletePoint(nil, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestFormatPoint(t *testing.T) {
	ts := time.Date(2020, time.May, 1, 9, 5, 7, 0, time.UTC).UnixMilli()
	assert.Equal(t, "May 1st 2020, 9:05:07 : 12.5", FormatPoint(types.Point{Value: 12.5, Timestamp: ts}))

	ts = time.Date(2021, time.November, 22, 23, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "November 22nd 2021, 23:00:00 : -3", FormatPoint(types.Point{Value: -3, Timestamp: ts}))

	loc := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "November 23rd 2021, 1:00:00 : 0", FormatPointIn(types.Point{Value: 0, Timestamp: ts}, loc))
}

func TestPointOptions(t *testing.T) {
	points := []types.Point{{Value: 1, Timestamp: 0}, {Value: 2, Timestamp: 1000}}
	opts := PointOptions(points, nil)

	require.Len(t, opts, 2)
	assert.Equal(t, PointOption{Text: "January 1st 1970, 0:00:00 : 1", Index: 0}, opts[0])
	assert.Equal(t, PointOption{Text: "January 1st 1970, 0:00:01 : 2", Index: 1}, opts[1])
}
