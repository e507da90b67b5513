package board

import "errors"

// Precondition misses. Operations returning one of these leave the board unchanged.
var (
	// ErrLaneNotFound indicates no lane matched the given ID or title.
	ErrLaneNotFound = errors.New("lane not found")

	// ErrTaskNotFound indicates the task is not in the named source lane.
	ErrTaskNotFound = errors.New("task not found in lane")

	// ErrEmptyContent indicates task content was empty after trimming.
	ErrEmptyContent = errors.New("task content is empty")

	// ErrDuplicateLane indicates two lanes share an ID in a board definition.
	ErrDuplicateLane = errors.New("duplicate lane ID")

	// ErrDuplicateTask indicates a task ID is already in use on the board.
	ErrDuplicateTask = errors.New("duplicate task ID")

	// ErrSuggestionInFlight indicates a suggestion request is already outstanding.
	ErrSuggestionInFlight = errors.New("suggestion request already in flight")
)

// LaneError names the lane reference that could not be resolved.
type LaneError struct {
	Ref string
}

func (e *LaneError) Error() string {
	return "lane not found: " + e.Ref
}

// Is allows errors.Is to match ErrLaneNotFound.
func (e *LaneError) Is(target error) bool {
	return target == ErrLaneNotFound
}
