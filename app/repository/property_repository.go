package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
)

// propertyRepository implements the PropertyRepository interface
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository instance
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create creates a new listing in the database
func (r *propertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

// GetByID retrieves a listing by its ID
func (r *propertyRepository) GetByID(id string) (*models.Property, error) {
	var property models.Property
	err := r.db.First(&property, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetByIDWithDetails retrieves a listing together with photos and reviews
func (r *propertyRepository) GetByIDWithDetails(id string) (*models.Property, error) {
	var property models.Property
	err := r.db.
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&property, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Search returns active listings matching the given filters plus the total match count.
func (r *propertyRepository) Search(params PropertySearch) ([]models.Property, int64, error) {
	query := r.db.Model(&models.Property{}).Where("active = ?", true)

	if city := strings.TrimSpace(params.City); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if params.Guests > 0 {
		query = query.Where("guests >= ?", params.Guests)
	}
	if params.MinPriceCents > 0 {
		query = query.Where("price_per_night_cents >= ?", params.MinPriceCents)
	}
	if params.MaxPriceCents > 0 {
		query = query.Where("price_per_night_cents <= ?", params.MaxPriceCents)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var properties []models.Property
	err := query.Order("created_at DESC").Offset(params.Offset).Limit(limit).Find(&properties).Error
	return properties, total, err
}

// Update updates an existing listing in the database
func (r *propertyRepository) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

// Delete soft deletes a listing by its ID
func (r *propertyRepository) Delete(id string) error {
	return r.db.Delete(&models.Property{}, "id = ?", id).Error
}

// Count returns the total number of listings
func (r *propertyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).Count(&count).Error
	return count, err
}

// AddPhoto attaches a gallery photo to a listing
func (r *propertyRepository) AddPhoto(photo *models.PropertyPhoto) error {
	return r.db.Create(photo).Error
}

// DeletePhoto removes a gallery photo
func (r *propertyRepository) DeletePhoto(photoID string) error {
	return r.db.Delete(&models.PropertyPhoto{}, "id = ?", photoID).Error
}

// AddReview attaches a guest review to a listing
func (r *propertyRepository) AddReview(review *models.PropertyReview) error {
	return r.db.Create(review).Error
}
