package trailRoutes

import (
	trailControllers "lms/controllers/trail"
	"lms/middleware"
	trailValidators "lms/validators/trail"

	"github.com/gofiber/fiber/v2"
)

func SetupTrailRoutes(app *fiber.App) {
	trailGroup := app.Group("/trails")

	// Catalogue
	trailGroup.Get("/", trailControllers.GetTrails)
	trailGroup.Get("/showcase", trailControllers.GetTrailsShowcase)
	trailGroup.Get("/:trail_id", trailValidators.TrailID(), trailControllers.GetTrailDetails)
	trailGroup.Get("/:trail_id/sections", trailValidators.TrailID(), trailControllers.GetSectionsWithItems)

	// Progress ledger. Registered before the item detail route so the
	// literal "progress" segment is not swallowed by :item_id.
	trailGroup.Put("/:trail_id/items/:item_id/progress", middleware.JWTMiddleware, trailValidators.ItemProgressUpdate(), trailControllers.UpdateItemProgress)
	trailGroup.Get("/:trail_id/progress", middleware.JWTMiddleware, trailValidators.TrailID(), trailControllers.GetTrailProgress)
	trailGroup.Get("/:trail_id/items/progress", middleware.JWTMiddleware, trailValidators.TrailID(), trailControllers.GetItemsProgress)

	// Item consumption
	trailGroup.Get("/:trail_id/items/:item_id", middleware.JWTMiddleware, trailValidators.TrailItemParams(), trailControllers.GetItemDetail)

	// Form submissions
	trailGroup.Post("/:trail_id/items/:item_id/submissions", middleware.JWTMiddleware, trailValidators.FormSubmission(), trailControllers.SubmitFormAnswers)

	// Reviews
	trailGroup.Post("/:trail_id/review", middleware.JWTMiddleware, trailValidators.Review(), trailControllers.SubmitTrailReview)
}
