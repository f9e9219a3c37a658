package controllers

import (
	"lms/database"
	"lms/middleware"
	trailModels "lms/models/trail"

	"github.com/gofiber/fiber/v2"
)

// GetTrails lists all published trails
func GetTrails(c *fiber.Ctx) error {
	var trails []trailModels.Trail
	if err := database.Database.Db.Where("is_deleted = ? AND is_published = ?", false, true).Order("name asc").Find(&trails).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trails!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trails fetched successfully!", fiber.Map{
		"trails": trails,
	})
}

// GetTrailsShowcase lists the trails promoted on the landing page
func GetTrailsShowcase(c *fiber.Ctx) error {
	var trails []trailModels.Trail
	if err := database.Database.Db.Where("is_deleted = ? AND is_published = ?", false, true).
		Order("review desc NULLS LAST, review_count desc").Limit(6).Find(&trails).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trails!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trails fetched successfully!", fiber.Map{
		"trails": trails,
	})
}

// GetTrailDetails fetches one trail
func GetTrailDetails(c *fiber.Ctx) error {
	trailID := c.Locals("trailID").(int)

	var trail trailModels.Trail
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", trailID, false, true).First(&trail).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trail not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trail fetched successfully!", trail)
}

// SectionWithItems is a section with its ordered items
type SectionWithItems struct {
	trailModels.TrailSection
	Items []trailModels.TrailItem `json:"items"`
}

// GetSectionsWithItems returns the trail's sections with their items, plus
// any items sitting directly under the trail, in trail order
func GetSectionsWithItems(c *fiber.Ctx) error {
	trailID := c.Locals("trailID").(int)

	var trail trailModels.Trail
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", trailID, false).First(&trail).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trail not found!", nil)
	}

	var sections []trailModels.TrailSection
	database.Database.Db.Where("trail_id = ? AND is_deleted = ?", trailID, false).Order("order_index asc, id asc").Find(&sections)

	result := make([]SectionWithItems, len(sections))
	for i, section := range sections {
		result[i] = SectionWithItems{TrailSection: section}
		database.Database.Db.Where("section_id = ? AND is_deleted = ?", section.ID, false).
			Order("order_index asc, id asc").Find(&result[i].Items)
	}

	// Items without a section come before any sectioned item
	var looseItems []trailModels.TrailItem
	database.Database.Db.Where("trail_id = ? AND section_id IS NULL AND is_deleted = ?", trailID, false).
		Order("order_index asc, id asc").Find(&looseItems)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched successfully!", fiber.Map{
		"items":    looseItems,
		"sections": result,
	})
}
