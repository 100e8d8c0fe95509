package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/estadia-app/estadia/app/controllers"
	"github.com/estadia-app/estadia/internal/pkg/middleware"
	"github.com/estadia-app/estadia/internal/pkg/session"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	session.NewSessionStore()

	// Resolve the caller's session before any handler runs.
	app.Use(middleware.UserContextMiddleware)

	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Estadia API",
		})
	})

	v1 := api.Group("/v1")

	// Public catalog
	v1.Get("/properties", controllers.HandleListProperties)
	v1.Get("/properties/:id", controllers.HandleGetProperty)

	// Auth
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleAPIRegister)
	auth.Post("/login", controllers.HandleAPILogin)
	auth.Post("/logout", controllers.HandleAPILogout)
	auth.Get("/me", middleware.RequireAPISessionAuth, controllers.HandleAPIMe)

	// Checkout: bookings can be created by anonymous guests.
	v1.Post("/bookings", controllers.HandleCreateBooking)
	v1.Get("/bookings/:id", controllers.HandleGetBooking)

	// Payments. The postback endpoint is called by the gateway, not by users.
	payments := v1.Group("/payments")
	payments.Post("/hura/create", controllers.HandleCreatePixPayment)
	payments.Post("/hura/postback", controllers.HandleHuraPostback)

	// Logged-in user area
	user := v1.Group("/user", middleware.RequireAPISessionAuth)
	user.Get("/bookings", controllers.HandleMyBookings)
	user.Get("/favorites", controllers.HandleListFavorites)
	user.Post("/favorites/:id/toggle", controllers.HandleToggleFavorite)

	v1.Post("/properties/:id/reviews", middleware.RequireAPISessionAuth, controllers.HandleCreatePropertyReview)

	// Admin panel
	admin := v1.Group("/admin", middleware.RequireAdminAPI)
	admin.Get("/dashboard", controllers.HandleAdminDashboard)
	admin.Post("/properties", controllers.HandleAdminCreateProperty)
	admin.Put("/properties/:id", controllers.HandleAdminUpdateProperty)
	admin.Delete("/properties/:id", controllers.HandleAdminDeleteProperty)
	admin.Post("/properties/:id/photos", controllers.HandleAdminAddPropertyPhoto)
	admin.Delete("/properties/:id/photos/:photoId", controllers.HandleAdminDeletePropertyPhoto)
	admin.Get("/bookings", controllers.HandleAdminListBookings)
	admin.Get("/payments", controllers.HandleAdminListPayments)
}
