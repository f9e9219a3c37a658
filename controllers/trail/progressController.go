package controllers

import (
	"lms/database"
	"lms/middleware"
	trailModels "lms/models/trail"
	"lms/services/progress"
	trailValidator "lms/validators/trail"

	"github.com/gofiber/fiber/v2"
)

// UpdateItemProgress applies a reported progress update to one item. The
// gate resolver runs first; a blocked item is a hard stop.
func UpdateItemProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)
	itemID := c.Locals("itemID").(int)

	reqData, ok := c.Locals("validatedItemProgress").(*trailValidator.ItemProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var item trailModels.TrailItem
	if err := database.Database.Db.Where("id = ? AND trail_id = ? AND is_deleted = ?", itemID, trailID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Item not found in this trail!", nil)
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

	row, syncRes, err := progress.UpsertItemProgress(db, userID, item.ID, progress.ProgressUpdate{
		Status:        trailModels.ProgressStatus(reqData.Status),
		ProgressValue: reqData.ProgressValue,
	})
	if err != nil {
		return engineErrorResponse(c, err)
	}

	// The certificate is already committed; notifications are best-effort
	if syncRes != nil && syncRes.CertificateIssued {
		go notifyCertificateIssued(userID, uint(trailID), syncRes.Certificate)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"item_progress": row,
		"enrollment":    syncRes.Enrollment,
	})
}

// GetTrailProgress returns the user's aggregate progress for one trail
func GetTrailProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)

	summaries, err := progress.ProgressMap(database.Database.Db, userID, []uint{uint(trailID)}, false)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", summaries[uint(trailID)])
}

// GetItemsProgress lists the user's per-item progress rows for one trail
func GetItemsProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)

	var rows []trailModels.ItemProgress
	if err := database.Database.Db.
		Joins("JOIN trail_items ON trail_items.id = item_progresses.trail_item_id").
		Where("item_progresses.user_id = ? AND trail_items.trail_id = ?", userID, trailID).
		Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch item progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item progress fetched successfully!", fiber.Map{
		"items": rows,
	})
}

// GetUserTrails lists the user's enrollments with their synced progress map
func GetUserTrails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sync := c.QueryBool("sync", false)

	var enrollments []trailModels.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	trailIDs := make([]uint, len(enrollments))
	for i, e := range enrollments {
		trailIDs[i] = e.TrailID
	}

	summaries, err := progress.ProgressMap(database.Database.Db, userID, trailIDs, sync)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	// The sync may have moved enrollment rows; re-read before rendering
	if sync {
		if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&enrollments).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
		}
	}

	type enrollmentWithTrail struct {
		trailModels.Enrollment
		TrailName    string                   `json:"trail_name"`
		ThumbnailURL string                   `json:"thumbnail_url"`
		Progress     progress.ProgressSummary `json:"progress"`
	}

	result := make([]enrollmentWithTrail, len(enrollments))
	for i, e := range enrollments {
		var t trailModels.Trail
		database.Database.Db.Where("id = ?", e.TrailID).First(&t)
		result[i] = enrollmentWithTrail{
			Enrollment:   e,
			TrailName:    t.Name,
			ThumbnailURL: t.ThumbnailURL,
			Progress:     summaries[e.TrailID],
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
