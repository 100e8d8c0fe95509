package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
)

// favoriteRepository implements the FavoriteRepository interface
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository instance
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Toggle saves or removes a favorite and reports whether it is now saved.
func (r *favoriteRepository) Toggle(userID uint, propertyID string) (bool, error) {
	var fav models.Favorite
	err := r.db.Where("user_id = ? AND property_id = ?", userID, propertyID).First(&fav).Error
	if err == nil {
		if err := r.db.Delete(&fav).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	fav = models.Favorite{UserID: userID, PropertyID: propertyID}
	if err := r.db.Create(&fav).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListByUserID returns the active listings a user saved, newest favorite first
func (r *favoriteRepository) ListByUserID(userID uint) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.
		Joins("JOIN favorites ON favorites.property_id = properties.id").
		Where("favorites.user_id = ? AND properties.active = ?", userID, true).
		Order("favorites.created_at DESC").
		Find(&properties).Error
	return properties, err
}
