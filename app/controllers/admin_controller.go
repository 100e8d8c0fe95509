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

// HandleAdminDashboard returns the operational counters for the admin panel.
func HandleAdminDashboard(c *fiber.Ctx) error {
	factory := repository.GetGlobalFactory()

	users, err := factory.GetUserRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count users")
	}
	properties, err := factory.GetPropertyRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count properties")
	}
	bookings, err := factory.GetBookingRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count bookings")
	}
	revenue, err := factory.GetBookingRepository().PaidRevenueCents()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to sum revenue")
	}

	return c.JSON(fiber.Map{
		"users":              users,
		"properties":         properties,
		"bookings":           bookings,
		"paid_revenue_cents": revenue,
	})
}

type propertyRequest struct {
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	City               string      `json:"city"`
	PricePerNightCents int64       `json:"price_per_night_cents"`
	Bedrooms           int         `json:"bedrooms"`
	Bathrooms          int         `json:"bathrooms"`
	Guests             int         `json:"guests"`
	Amenities          models.JSON `json:"amenities"`
	ImageURL           string      `json:"image_url"`
	Active             *bool       `json:"active"`
}

// HandleAdminCreateProperty creates a new listing.
func HandleAdminCreateProperty(c *fiber.Ctx) error {
	var req propertyRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	property := &models.Property{
		HostID:             usercontext.GetUserID(c),
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		City:               strings.TrimSpace(req.City),
		PricePerNightCents: req.PricePerNightCents,
		Bedrooms:           req.Bedrooms,
		Bathrooms:          req.Bathrooms,
		Guests:             req.Guests,
		Amenities:          req.Amenities,
		ImageURL:           strings.TrimSpace(req.ImageURL),
		Active:             true,
	}
	if req.Active != nil {
		property.Active = *req.Active
	}
	if property.Guests < 1 {
		property.Guests = 2
	}
	if err := property.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetPropertyRepository().Create(property); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create property")
	}

	invalidatePropertyCache()

	return c.Status(fiber.StatusCreated).JSON(property)
}

// HandleAdminUpdateProperty updates an existing listing.
func HandleAdminUpdateProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	repo := repository.GetGlobalFactory().GetPropertyRepository()
	property, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Property not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load property")
	}

	var req propertyRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	if v := strings.TrimSpace(req.Title); v != "" {
		property.Title = v
	}
	if req.Description != "" {
		property.Description = req.Description
	}
	if v := strings.TrimSpace(req.City); v != "" {
		property.City = v
	}
	if req.PricePerNightCents > 0 {
		property.PricePerNightCents = req.PricePerNightCents
	}
	if req.Bedrooms > 0 {
		property.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms > 0 {
		property.Bathrooms = req.Bathrooms
	}
	if req.Guests > 0 {
		property.Guests = req.Guests
	}
	if req.Amenities != nil {
		property.Amenities = req.Amenities
	}
	if v := strings.TrimSpace(req.ImageURL); v != "" {
		property.ImageURL = v
	}
	if req.Active != nil {
		property.Active = *req.Active
	}
	if err := property.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repo.Update(property); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update property")
	}

	invalidatePropertyCache()

	return c.JSON(property)
}

// HandleAdminDeleteProperty soft deletes a listing.
func HandleAdminDeleteProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	repo := repository.GetGlobalFactory().GetPropertyRepository()
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Property not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load property")
	}

	if err := repo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete property")
	}

	invalidatePropertyCache()

	return c.JSON(fiber.Map{"ok": true})
}

type propertyPhotoRequest struct {
	URL       string `json:"url"`
	SortOrder int    `json:"sort_order"`
}

// HandleAdminAddPropertyPhoto attaches an externally hosted photo to a listing.
func HandleAdminAddPropertyPhoto(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	repo := repository.GetGlobalFactory().GetPropertyRepository()
	if _, err := repo.GetByID(propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Property not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load property")
	}

	var req propertyPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	photo := &models.PropertyPhoto{
		PropertyID: propertyID,
		URL:        strings.TrimSpace(req.URL),
		SortOrder:  req.SortOrder,
	}
	if photo.URL == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "url is required")
	}

	if err := repo.AddPhoto(photo); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to add photo")
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

// HandleAdminDeletePropertyPhoto removes a gallery photo.
func HandleAdminDeletePropertyPhoto(c *fiber.Ctx) error {
	photoID := c.Params("photoId")

	if err := repository.GetGlobalFactory().GetPropertyRepository().DeletePhoto(photoID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete photo")
	}

	return c.JSON(fiber.Map{"ok": true})
}

// HandleAdminListBookings returns all bookings for the admin panel.
func HandleAdminListBookings(c *fiber.Ctx) error {
	offset, limit, page := parsePagination(c)

	bookings, total, err := repository.GetGlobalFactory().GetBookingRepository().List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load bookings")
	}

	return c.JSON(fiber.Map{
		"bookings":  bookings,
		"total":     total,
		"page":      page,
		"page_size": limit,
	})
}

// HandleAdminListPayments returns the payment transaction audit trail.
func HandleAdminListPayments(c *fiber.Ctx) error {
	offset, limit, page := parsePagination(c)

	repo := repository.GetGlobalFactory().GetPaymentTransactionRepository()

	if bookingID := strings.TrimSpace(c.Query("booking_id")); bookingID != "" {
		txs, err := repo.ListByBookingID(bookingID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transactions")
		}
		return c.JSON(fiber.Map{"transactions": txs, "total": len(txs)})
	}

	txs, total, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transactions")
	}

	return c.JSON(fiber.Map{
		"transactions": txs,
		"total":        total,
		"page":         page,
		"page_size":    limit,
	})
}
