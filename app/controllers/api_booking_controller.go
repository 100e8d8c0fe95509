package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
	"github.com/estadia-app/estadia/app/repository"
	"github.com/estadia-app/estadia/internal/pkg/usercontext"
)

type createBookingRequest struct {
	PropertyID string `json:"property_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	Nights     int    `json:"nights"`
}

// HandleCreateBooking creates a pending booking at checkout. Price terms are
// taken from the listing, never from the client; the client only picks the
// stay length. Works for anonymous guests, logged-in users get the booking
// attached to their account.
func HandleCreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if strings.TrimSpace(req.PropertyID) == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "property_id is required")
	}
	if req.Nights <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "nights must be a positive integer")
	}

	factory := repository.GetGlobalFactory()
	property, err := factory.GetPropertyRepository().GetByID(strings.TrimSpace(req.PropertyID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Property not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load property")
	}
	if !property.Active {
		return jsonError(c, fiber.StatusUnprocessableEntity, "property_inactive", "This property is not bookable")
	}

	booking := &models.Booking{
		PropertyID:         property.ID,
		GuestName:          strings.TrimSpace(req.GuestName),
		GuestEmail:         strings.ToLower(strings.TrimSpace(req.GuestEmail)),
		GuestPhone:         strings.TrimSpace(req.GuestPhone),
		Nights:             req.Nights,
		PricePerNightCents: property.PricePerNightCents,
		TotalCents:         property.PricePerNightCents * int64(req.Nights),
		PaymentStatus:      models.PaymentStatusPending,
	}
	if userCtx := usercontext.GetUserContext(c); userCtx.IsLoggedIn {
		userID := userCtx.UserID
		booking.UserID = &userID
	}

	if err := booking.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := factory.GetBookingRepository().Create(booking); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// HandleGetBooking returns one booking, used by the checkout page to poll the
// payment status. Bookings owned by an account are only visible to that
// account or an admin.
func HandleGetBooking(c *fiber.Ctx) error {
	id := c.Params("id")

	booking, err := repository.GetGlobalFactory().GetBookingRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load booking")
	}

	if booking.UserID != nil {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsAdmin && (!userCtx.IsLoggedIn || userCtx.UserID != *booking.UserID) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
	}

	return c.JSON(booking)
}
