package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
)

// bookingRepository implements the BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository instance
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking in the database
func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking by its ID
func (r *bookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByUserID retrieves a user's bookings, newest first
func (r *bookingRepository) GetByUserID(userID uint, offset, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error
	return bookings, err
}

// List retrieves a paginated list of all bookings plus the total count
func (r *bookingRepository) List(offset, limit int) ([]models.Booking, int64, error) {
	var total int64
	if err := r.db.Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bookings []models.Booking
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error
	return bookings, total, err
}

// MarkPaid transitions a booking to the terminal paid state and stamps
// paid_at. Re-applying to an already paid booking is a no-op, which keeps
// postback redelivery idempotent.
func (r *bookingRepository) MarkPaid(id string) error {
	now := time.Now()
	return r.db.Model(&models.Booking{}).
		Where("id = ? AND payment_status <> ?", id, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"paid_at":        &now,
		}).Error
}

// MarkPaymentFailed flags a pending booking whose gateway call was rejected.
// A booking that already reached paid is never downgraded.
func (r *bookingRepository) MarkPaymentFailed(id string) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentStatusPending).
		Update("payment_status", models.PaymentStatusFailed).Error
}

// Count returns the total number of bookings
func (r *bookingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).Count(&count).Error
	return count, err
}

// PaidRevenueCents sums the totals of all paid bookings
func (r *bookingRepository) PaidRevenueCents() (int64, error) {
	var revenue int64
	err := r.db.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_cents), 0)").Scan(&revenue).Error
	return revenue, err
}
