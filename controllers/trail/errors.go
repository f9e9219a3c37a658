package controllers

import (
	"errors"
	"lms/middleware"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// engineErrorResponse translates the engine's typed failures into the API
// envelope. Everything mapped here is an expected condition; anything else
// is a storage failure and comes back as a 500.
func engineErrorResponse(c *fiber.Ctx, err error) error {
	var locked *progress.ItemLockedError
	if errors.As(err, &locked) {
		return middleware.JsonResponse(c, fiber.StatusLocked, false, "Complete the required item before proceeding!", fiber.Map{
			"reason": "item_locked",
			"blocked_item": fiber.Map{
				"id":    locked.ItemID,
				"title": locked.Title,
			},
		})
	}

	var validation *progress.ValidationError
	if errors.As(err, &validation) {
		data := fiber.Map{}
		if len(validation.InvalidQuestionIDs) > 0 {
			data["invalid_questions"] = validation.InvalidQuestionIDs
		}
		if len(validation.MissingQuestionIDs) > 0 {
			data["missing_questions"] = validation.MissingQuestionIDs
		}
		if validation.QuestionID != 0 {
			data["question_id"] = validation.QuestionID
		}
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, validation.Message, data)
	}

	var watch *progress.InsufficientWatchTimeError
	if errors.As(err, &watch) {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Watch time is insufficient to complete this video!", fiber.Map{
			"reason":           "insufficient_watch_time",
			"watched_seconds":  watch.WatchedSeconds,
			"required_seconds": watch.RequiredSeconds,
		})
	}

	var skip *progress.SkipAheadBlockedError
	if errors.As(err, &skip) {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Reported watch time runs past the end of the video!", fiber.Map{
			"reason":           "skip_ahead_blocked",
			"reported_seconds": skip.ReportedSeconds,
			"duration_seconds": skip.DurationSeconds,
		})
	}

	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	case errors.Is(err, progress.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this trail!", nil)
	case errors.Is(err, progress.ErrReviewNotAllowed):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please complete the trail before leaving a review!", nil)
	case errors.Is(err, progress.ErrRatingOutOfRange):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
}
