package trailValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	trailModels "lms/models/trail"

	"github.com/gofiber/fiber/v2"
)

// ItemProgressRequest is a validated progress report for one trail item
type ItemProgressRequest struct {
	Status        string `json:"status"`
	ProgressValue *int   `json:"progress_value"`
}

// AnswerRequest is one answer inside a form submission
type AnswerRequest struct {
	QuestionID       uint    `json:"question_id"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	AnswerText       *string `json:"answer_text"`
}

// FormSubmissionRequest is a validated set of form answers
type FormSubmissionRequest struct {
	Answers         []AnswerRequest `json:"answers"`
	DurationSeconds *int            `json:"duration_seconds"`
}

// ReviewRequest is a validated trail review
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func parseTrailID(c *fiber.Ctx) (int, error) {
	trailIDStr := strings.TrimSpace(c.Params("trail_id"))
	if trailIDStr == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Trail ID is required!", nil)
	}
	trailID, err := strconv.Atoi(trailIDStr)
	if err != nil || trailID <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Trail ID!", nil)
	}
	return trailID, nil
}

func parseItemID(c *fiber.Ctx) (int, error) {
	itemIDStr := strings.TrimSpace(c.Params("item_id"))
	if itemIDStr == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Item ID is required!", nil)
	}
	itemID, err := strconv.Atoi(itemIDStr)
	if err != nil || itemID <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Item ID!", nil)
	}
	return itemID, nil
}

// TrailID validates the trail id path parameter
func TrailID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trailID, err := parseTrailID(c)
		if err != nil {
			return err
		}

		c.Locals("trailID", trailID)
		return c.Next()
	}
}

// TrailItemParams validates the trail and item id path parameters
func TrailItemParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trailID, err := parseTrailID(c)
		if err != nil {
			return err
		}
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}

		c.Locals("trailID", trailID)
		c.Locals("itemID", itemID)
		return c.Next()
	}
}

// ItemProgressUpdate validates a progress report body
func ItemProgressUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trailID, err := parseTrailID(c)
		if err != nil {
			return err
		}
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}

		reqData := new(ItemProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))

		// Validate Status
		switch trailModels.ProgressStatus(reqData.Status) {
		case trailModels.ProgressNotStarted, trailModels.ProgressInProgress, trailModels.ProgressCompleted:
		case "":
			errors["status"] = "Status is required!"
		default:
			errors["status"] = "Status must be one of NOT_STARTED, IN_PROGRESS or COMPLETED!"
		}

		// Validate ProgressValue (optional field)
		if reqData.ProgressValue != nil && *reqData.ProgressValue < 0 {
			errors["progress_value"] = "Progress value must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("trailID", trailID)
		c.Locals("itemID", itemID)
		c.Locals("validatedItemProgress", reqData)
		return c.Next()
	}
}

// FormSubmission validates a form submission body
func FormSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trailID, err := parseTrailID(c)
		if err != nil {
			return err
		}
		itemID, err := parseItemID(c)
		if err != nil {
			return err
		}

		reqData := new(FormSubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Answers
		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}
		for i := range reqData.Answers {
			a := &reqData.Answers[i]
			if a.QuestionID == 0 {
				errors["answers"] = "Every answer must carry a question_id!"
				break
			}
			if a.AnswerText != nil {
				trimmed := strings.TrimSpace(*a.AnswerText)
				a.AnswerText = &trimmed
			}
		}

		// Validate DurationSeconds (optional field)
		if reqData.DurationSeconds != nil && *reqData.DurationSeconds < 0 {
			errors["duration_seconds"] = "Duration must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("trailID", trailID)
		c.Locals("itemID", itemID)
		c.Locals("validatedFormSubmission", reqData)
		return c.Next()
	}
}

// Review validates a trail review body
func Review() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trailID, err := parseTrailID(c)
		if err != nil {
			return err
		}

		reqData := new(ReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Rating
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		// Validate Comment (optional field)
		reqData.Comment = strings.TrimSpace(reqData.Comment)
		if len(reqData.Comment) > 1000 {
			errors["comment"] = "Comment must not exceed 1000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("trailID", trailID)
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
