package controllers

import (
	"lms/database"
	"lms/middleware"
	trailModels "lms/models/trail"
	"lms/services/progress"
	trailValidator "lms/validators/trail"

	"github.com/gofiber/fiber/v2"
)

// SubmitFormAnswers grades a form submission for a FORM item. The gate
// resolver runs first; a passing verdict completes the item and may finish
// the trail, issuing the certificate before this handler returns.
func SubmitFormAnswers(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)
	itemID := c.Locals("itemID").(int)

	reqData, ok := c.Locals("validatedFormSubmission").(*trailValidator.FormSubmissionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var item trailModels.TrailItem
	if err := database.Database.Db.Where("id = ? AND trail_id = ? AND is_deleted = ?", itemID, trailID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Item not found in this trail!", nil)
	}

	if item.Kind != trailModels.KindForm {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This item is not a form!", nil)
	}

	db := database.Database.Db

	blocker, err := progress.FindBlockingItem(db, userID, uint(trailID), item.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve item access!", nil)
	}
	if blocker != nil {
		return engineErrorResponse(c, &progress.ItemLockedError{ItemID: blocker.ID, Title: blocker.Title})
	}

	if _, err := progress.EnsureEnrollment(db, userID, uint(trailID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in trail!", nil)
	}

	answers := make([]progress.AnswerInput, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = progress.AnswerInput{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			AnswerText:       a.AnswerText,
		}
	}

	result, syncRes, err := progress.GradeSubmission(db, userID, &item, answers, reqData.DurationSeconds)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	if syncRes != nil && syncRes.CertificateIssued {
		go notifyCertificateIssued(userID, uint(trailID), syncRes.Certificate)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form submitted successfully!", result)
}
