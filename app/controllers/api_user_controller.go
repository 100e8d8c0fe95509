package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/estadia-app/estadia/app/repository"
	"github.com/estadia-app/estadia/internal/pkg/usercontext"
)

// HandleMyBookings returns the authenticated user's bookings, newest first.
func HandleMyBookings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit, page := parsePagination(c)

	bookings, err := repository.GetGlobalFactory().GetBookingRepository().GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load bookings")
	}

	return c.JSON(fiber.Map{
		"bookings":  bookings,
		"page":      page,
		"page_size": limit,
	})
}

// HandleToggleFavorite saves or removes a listing from the authenticated
// user's favorites, reporting the resulting state.
func HandleToggleFavorite(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	propertyID := c.Params("id")

	saved, err := repository.GetGlobalFactory().GetFavoriteRepository().Toggle(userCtx.UserID, propertyID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to toggle favorite")
	}

	return c.JSON(fiber.Map{
		"property_id": propertyID,
		"saved":       saved,
	})
}

// HandleListFavorites returns the authenticated user's saved listings.
func HandleListFavorites(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	properties, err := repository.GetGlobalFactory().GetFavoriteRepository().ListByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load favorites")
	}

	return c.JSON(fiber.Map{"properties": properties})
}
