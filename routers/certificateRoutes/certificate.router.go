package certificateRoutes

import (
	trailControllers "lms/controllers/trail"
	"lms/middleware"
	trailValidators "lms/validators/trail"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificates")

	// Public verification endpoint behind the QR code
	certGroup.Get("/:hash", trailControllers.GetCertificateByHash)

	// Caller's certificate for one trail
	meGroup := app.Group("/me/trails")
	meGroup.Get("/:trail_id/certificate", middleware.JWTMiddleware, trailValidators.TrailID(), trailControllers.GetMyTrailCertificate)

	// Manual backfill sweep, same job the nightly scheduler runs
	adminGroup := app.Group("/admin/certificates")
	adminGroup.Post("/backfill", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), trailControllers.BackfillCertificates)
}
