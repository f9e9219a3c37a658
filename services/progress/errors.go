package progress

import (
	"errors"
	"fmt"
)

// The engine surfaces expected failures as typed errors so the HTTP layer
// can render specific responses. None of these are logged as unexpected;
// only raw storage errors bubble up unwrapped.

var (
	// ErrNotFound covers absent or mismatched trails, items and forms
	ErrNotFound = errors.New("resource not found")
	// ErrNotEnrolled is returned by strict reads before an enrollment exists
	ErrNotEnrolled = errors.New("user is not enrolled in this trail")
	// ErrReviewNotAllowed rejects reviews submitted before trail completion
	ErrReviewNotAllowed = errors.New("trail must be completed before reviewing")
	// ErrRatingOutOfRange rejects review ratings outside 1..5
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// ItemLockedError reports that a gating item earlier in the trail order is
// still incomplete. It carries the blocker so callers can name it.
type ItemLockedError struct {
	ItemID uint
	Title  string
}

func (e *ItemLockedError) Error() string {
	return fmt.Sprintf("item is locked by incomplete required item %d (%s)", e.ItemID, e.Title)
}

// ValidationError reports malformed or incomplete form submissions
type ValidationError struct {
	Message            string
	InvalidQuestionIDs []uint
	MissingQuestionIDs []uint
	// Set when a selected option does not belong to its question
	QuestionID      uint
	InvalidOptionID uint
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientWatchTimeError rejects a COMPLETED claim on a video whose
// stored watch time does not cover the required share of the duration
type InsufficientWatchTimeError struct {
	WatchedSeconds  int
	RequiredSeconds int
}

func (e *InsufficientWatchTimeError) Error() string {
	return fmt.Sprintf("insufficient watch time: %ds watched, %ds required", e.WatchedSeconds, e.RequiredSeconds)
}

// SkipAheadBlockedError rejects a COMPLETED claim whose reported watch time
// runs past the end of the video
type SkipAheadBlockedError struct {
	ReportedSeconds int
	DurationSeconds int
}

func (e *SkipAheadBlockedError) Error() string {
	return fmt.Sprintf("reported watch time %ds exceeds video duration %ds", e.ReportedSeconds, e.DurationSeconds)
}
