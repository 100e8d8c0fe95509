package repository

import (
	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// PropertySearch carries the supported listing filters.
type PropertySearch struct {
	City          string
	Guests        int
	MinPriceCents int64
	MaxPriceCents int64
	Offset        int
	Limit         int
}

// PropertyRepository defines the interface for listing-related database operations
type PropertyRepository interface {
	Create(property *models.Property) error
	GetByID(id string) (*models.Property, error)
	GetByIDWithDetails(id string) (*models.Property, error)
	Search(params PropertySearch) ([]models.Property, int64, error)
	Update(property *models.Property) error
	Delete(id string) error
	Count() (int64, error)
	AddPhoto(photo *models.PropertyPhoto) error
	DeletePhoto(photoID string) error
	AddReview(review *models.PropertyReview) error
}

// BookingRepository defines the interface for booking-related database operations
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Booking, error)
	List(offset, limit int) ([]models.Booking, int64, error)
	MarkPaid(id string) error
	MarkPaymentFailed(id string) error
	Count() (int64, error)
	PaidRevenueCents() (int64, error)
}

// PaymentTransactionRepository defines the interface for payment audit rows
type PaymentTransactionRepository interface {
	Create(tx *models.PaymentTransaction) error
	GetByProviderTransactionID(provider, providerTxID string) (*models.PaymentTransaction, error)
	UpdateByProviderTransactionID(provider, providerTxID, status string, raw models.JSON) (int64, error)
	ListByBookingID(bookingID string) ([]models.PaymentTransaction, error)
	List(offset, limit int) ([]models.PaymentTransaction, int64, error)
}

// FavoriteRepository defines the interface for saved listings
type FavoriteRepository interface {
	Toggle(userID uint, propertyID string) (bool, error)
	ListByUserID(userID uint) ([]models.Property, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User               UserRepository
	Property           PropertyRepository
	Booking            BookingRepository
	PaymentTransaction PaymentTransactionRepository
	Favorite           FavoriteRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:               NewUserRepository(db),
		Property:           NewPropertyRepository(db),
		Booking:            NewBookingRepository(db),
		PaymentTransaction: NewPaymentTransactionRepository(db),
		Favorite:           NewFavoriteRepository(db),
	}
}
