package editor

import "errors"

var (
	// ErrInvalidTimestamp is returned when a point's time expression cannot be parsed
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrIndexOutOfRange is returned when deleting a point that does not exist
	ErrIndexOutOfRange = errors.New("point index out of range")

	// ErrScenarioFetchFailed marks a failed scenario catalog request
	ErrScenarioFetchFailed = errors.New("scenario fetch failed")

	// ErrPending is returned for edits issued before the scenario catalog has loaded
	ErrPending = errors.New("scenario catalog still loading")

	// ErrClosed is returned for edits issued after the editor was torn down
	ErrClosed = errors.New("editor closed")

	// ErrUnknownField is returned by SetField for a field the editor does not expose
	ErrUnknownField = errors.New("unknown field")

	// ErrPointListUnavailable is returned for point edits outside the manual entry scenario
	ErrPointListUnavailable = errors.New("point list is only available for manual entry")
)
