package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/services/progress"
	trailValidator "lms/validators/trail"

	"github.com/gofiber/fiber/v2"
)

// SubmitTrailReview records a rating for a completed trail and refreshes
// the trail's aggregate review score.
func SubmitTrailReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)

	reqData, ok := c.Locals("validatedReview").(*trailValidator.ReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := progress.SaveReview(database.Database.Db, userID, uint(trailID), reqData.Rating, reqData.Comment)
	if err != nil {
		if errors.Is(err, progress.ErrReviewNotAllowed) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the trail before reviewing it!", nil)
		}
		return engineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review saved successfully!", fiber.Map{
		"rating":      enrollment.ReviewRating,
		"comment":     enrollment.ReviewComment,
		"reviewed_at": enrollment.ReviewedAt,
	})
}
