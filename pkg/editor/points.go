package editor

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vjranagit/queryeditor/pkg/types"
)

// PointOption is one entry of the manual point selector
type PointOption struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// AddPoint returns a new sequence with the point inserted in timestamp order.
// Points sharing a timestamp keep their insertion order. The input is not modified.
func AddPoint(points []types.Point, value float64, timestampMillis int64) []types.Point {
	next := make([]types.Point, len(points), len(points)+1)
	copy(next, points)
	next = append(next, types.Point{Value: value, Timestamp: timestampMillis})

	// manual lists are small, re-sorting keeps the code obvious
	slices.SortStableFunc(next, func(a, b types.Point) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
	return next
}

// AddPointExpr parses timeExpr relative to now and adds the point. On a parse
// failure the original sequence is returned with an ErrInvalidTimestamp error.
func AddPointExpr(points []types.Point, value float64, timeExpr string, now time.Time) ([]types.Point, error) {
	ts, err := ParseTimestampMillis(timeExpr, now)
	if err != nil {
		return points, err
	}
	return AddPoint(points, value, ts), nil
}

// DeletePoint returns a new sequence without the point at index
func DeletePoint(points []types.Point, index int) ([]types.Point, error) {
	if index < 0 || index >= len(points) {
		return points, fmt.Errorf("%w: %d (have %d points)", ErrIndexOutOfRange, index, len(points))
	}

	next := make([]types.Point, 0, len(points)-1)
	next = append(next, points[:index]...)
	next = append(next, points[index+1:]...)
	return next, nil
}

// FormatPoint renders a point for list display in UTC
func FormatPoint(p types.Point) string {
	return FormatPointIn(p, time.UTC)
}

// FormatPointIn renders a point as "January 2nd 2006, 15:04:05 : value" in loc
func FormatPointIn(p types.Point, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t := time.UnixMilli(p.Timestamp).In(loc)

	return fmt.Sprintf("%s %s %04d, %d:%02d:%02d : %s",
		t.Month(), humanize.Ordinal(t.Day()), t.Year(),
		t.Hour(), t.Minute(), t.Second(),
		strconv.FormatFloat(p.Value, 'f', -1, 64))
}

// PointOptions builds the selector entries for a point list
func PointOptions(points []types.Point, loc *time.Location) []PointOption {
	opts := make([]PointOption, len(points))
	for i, p := range points {
		opts[i] = PointOption{Text: FormatPointIn(p, loc), Index: i}
	}
	return opts
}
