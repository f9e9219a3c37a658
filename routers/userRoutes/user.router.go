package userRoutes

import (
	trailControllers "lms/controllers/trail"
	userControllers "lms/controllers/userControllers"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userControllers.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userControllers.UpdateProfile)

	// Enrollment overview; ?sync=true reconciles every trail first
	userGroup.Get("/trails", middleware.JWTMiddleware, trailControllers.GetUserTrails)
	userGroup.Get("/certificates", middleware.JWTMiddleware, trailControllers.GetUserCertificates)
}
