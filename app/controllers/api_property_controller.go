package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
	"github.com/estadia-app/estadia/app/repository"
	"github.com/estadia-app/estadia/internal/pkg/cache"
	"github.com/estadia-app/estadia/internal/pkg/usercontext"
)

const propertyCacheTTL = 5 * time.Minute
const propertyCachePrefix = "properties:search:"

// HandleListProperties returns active listings with optional filters
// (city, guests, price range) and pagination. Results are cached in Redis
// keyed by the full filter set.
func HandleListProperties(c *fiber.Ctx) error {
	offset, limit, page := parsePagination(c)

	params := repository.PropertySearch{
		City:   strings.TrimSpace(c.Query("city")),
		Offset: offset,
		Limit:  limit,
	}
	if v, err := strconv.Atoi(c.Query("guests", "0")); err == nil && v > 0 {
		params.Guests = v
	}
	if v, err := strconv.ParseInt(c.Query("min_price_cents", "0"), 10, 64); err == nil && v > 0 {
		params.MinPriceCents = v
	}
	if v, err := strconv.ParseInt(c.Query("max_price_cents", "0"), 10, 64); err == nil && v > 0 {
		params.MaxPriceCents = v
	}

	cacheKey := fmt.Sprintf("%s%s:%d:%d:%d:%d:%d", propertyCachePrefix, params.City, params.Guests, params.MinPriceCents, params.MaxPriceCents, page, limit)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	repo := repository.GetGlobalFactory().GetPropertyRepository()
	properties, total, err := repo.Search(params)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load properties")
	}

	response := fiber.Map{
		"properties": properties,
		"total":      total,
		"page":       page,
		"page_size":  limit,
	}

	if encoded, err := json.Marshal(response); err == nil {
		_ = cache.Set(cacheKey, string(encoded), propertyCacheTTL)
	}

	return c.JSON(response)
}

// HandleGetProperty returns one listing with photos and reviews.
func HandleGetProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	repo := repository.GetGlobalFactory().GetPropertyRepository()
	property, err := repo.GetByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Property not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load property")
	}

	return c.JSON(property)
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleCreatePropertyReview adds a review to a listing for the logged-in
// user and refreshes the cached average rating.
func HandleCreatePropertyReview(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	propertyID := c.Params("id")

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	repo := repository.GetGlobalFactory().GetPropertyRepository()
	if _, err := repo.GetByID(propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Property not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load property")
	}

	review := &models.PropertyReview{
		PropertyID: propertyID,
		AuthorName: userCtx.Username,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := review.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repo.AddReview(review); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save review")
	}

	invalidatePropertyCache()

	return c.Status(fiber.StatusCreated).JSON(review)
}

func invalidatePropertyCache() {
	_ = cache.DeleteByPattern(propertyCachePrefix + "*")
}
