package controllers

import (
	"path"
	"regexp"
	"strings"

	"lms/config"
	"lms/database"
	"lms/middleware"
	trailModels "lms/models/trail"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var youtubeIDPattern = regexp.MustCompile(`(?:v=|/embed/|/shorts/|youtu\.be/)([A-Za-z0-9_-]{6,})`)

// extractYouTubeID pulls the video id out of the usual YouTube URL shapes
// (watch?v=, youtu.be/, /embed/, /shorts/)
func extractYouTubeID(url string) string {
	if url == "" {
		return ""
	}
	if m := youtubeIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// classifyResource buckets a DOC item's URL by file extension
func classifyResource(url string) (resourceURL, resourceKind string) {
	cleaned := strings.TrimSpace(url)
	if cleaned == "" {
		return "", ""
	}

	trimmed := cleaned
	if q := strings.IndexAny(trimmed, "?#"); q >= 0 {
		trimmed = trimmed[:q]
	}
	switch strings.ToLower(path.Ext(trimmed)) {
	case ".pdf":
		return cleaned, "PDF"
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg":
		return cleaned, "IMAGE"
	default:
		return cleaned, "OTHER"
	}
}

// computePrevNext finds the neighbouring item ids within the item's own
// section scope (or among the sectionless items)
func computePrevNext(item *trailModels.TrailItem) (prevID, nextID *uint) {
	db := database.Database.Db

	scoped := func() *gorm.DB {
		q := db.Model(&trailModels.TrailItem{}).
			Where("trail_id = ? AND is_deleted = ?", item.TrailID, false)
		if item.SectionID != nil {
			return q.Where("section_id = ?", *item.SectionID)
		}
		return q.Where("section_id IS NULL")
	}

	var prev trailModels.TrailItem
	if err := scoped().
		Where("(order_index < ?) OR (order_index = ? AND id < ?)", item.OrderIndex, item.OrderIndex, item.ID).
		Order("order_index desc, id desc").First(&prev).Error; err == nil {
		id := prev.ID
		prevID = &id
	}

	var next trailModels.TrailItem
	if err := scoped().
		Where("(order_index > ?) OR (order_index = ? AND id > ?)", item.OrderIndex, item.OrderIndex, item.ID).
		Order("order_index asc, id asc").First(&next).Error; err == nil {
		id := next.ID
		nextID = &id
	}
	return prevID, nextID
}

// GetItemDetail returns the full payload for one item: navigation ids, the
// video/resource metadata per kind, and the form (answers stripped) for FORM
// items. Access is gate-checked first.
func GetItemDetail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)
	itemID := c.Locals("itemID").(int)

	var item trailModels.TrailItem
	if err := database.Database.Db.Where("id = ? AND trail_id = ? AND is_deleted = ?", itemID, trailID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Item not found!", nil)
	}

	// Sequential gating: a non-nil blocker is a hard stop
	blocker, err := progress.FindBlockingItem(database.Database.Db, userID, uint(trailID), item.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve item access!", nil)
	}
	if blocker != nil {
		return engineErrorResponse(c, &progress.ItemLockedError{ItemID: blocker.ID, Title: blocker.Title})
	}

	prevID, nextID := computePrevNext(&item)

	detail := fiber.Map{
		"id":                  item.ID,
		"trail_id":            item.TrailID,
		"section_id":          item.SectionID,
		"title":               item.Title,
		"kind":                item.Kind,
		"duration_seconds":    item.DurationSeconds,
		"order_index":         item.OrderIndex,
		"requires_completion": item.CompletionRequired(),
		"required_percentage": config.AppConfig.RequiredWatchPercent,
		"prev_item_id":        prevID,
		"next_item_id":        nextID,
	}

	switch item.Kind {
	case trailModels.KindVideo:
		detail["youtube_id"] = extractYouTubeID(item.URL)
	case trailModels.KindDoc:
		resourceURL, resourceKind := classifyResource(item.URL)
		detail["resource_url"] = resourceURL
		detail["resource_kind"] = resourceKind
	case trailModels.KindForm:
		var form trailModels.Form
		err := database.Database.Db.Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).Where("trail_item_id = ?", item.ID).First(&form).Error
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Form not found for this item!", nil)
		}
		detail["form"] = formPayload(&form)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item fetched successfully!", detail)
}

// formPayload shapes a form for clients, resolving the legacy flag dualities
// and never exposing which options are correct
func formPayload(form *trailModels.Form) fiber.Map {
	questions := make([]fiber.Map, len(form.Questions))
	for i, q := range form.Questions {
		options := make([]fiber.Map, len(q.Options))
		for j, o := range q.Options {
			options[j] = fiber.Map{
				"id":          o.ID,
				"text":        o.OptionText,
				"order_index": o.OrderIndex,
			}
		}
		questions[i] = fiber.Map{
			"id":          q.ID,
			"prompt":      q.Prompt,
			"kind":        q.Kind,
			"required":    q.IsRequired(),
			"order_index": q.OrderIndex,
			"points":      q.Points,
			"options":     options,
		}
	}
	return fiber.Map{
		"id":                  form.ID,
		"title":               form.Title,
		"description":         form.Description,
		"min_score_to_pass":   form.MinScoreToPass,
		"randomize_questions": form.Randomize(),
		"questions":           questions,
	}
}
