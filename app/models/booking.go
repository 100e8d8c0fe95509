package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "payment_failed"
)

// Booking is a reservation request created at checkout. Its payment status
// only ever moves pending -> paid or pending -> payment_failed; paid is
// terminal.
type Booking struct {
	ID                 string     `gorm:"type:char(36);primaryKey" json:"id"`
	PropertyID         string     `gorm:"type:char(36);not null;index" json:"property_id"`
	UserID             *uint      `gorm:"index" json:"user_id,omitempty"`
	GuestName          string     `gorm:"type:varchar(150);not null" json:"guest_name" validate:"required,max=150"`
	GuestEmail         string     `gorm:"type:varchar(200);not null" json:"guest_email" validate:"required,email,max=200"`
	GuestPhone         string     `gorm:"type:varchar(30);not null" json:"guest_phone" validate:"required,max=30"`
	Nights             int        `gorm:"not null" json:"nights" validate:"required,gt=0"`
	PricePerNightCents int64      `gorm:"not null" json:"price_per_night_cents" validate:"required,gt=0"`
	TotalCents         int64      `gorm:"not null" json:"total_cents" validate:"required,gt=0"`
	PaymentStatus      string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"payment_status"`
	PaidAt             *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentStatusPending
	}
	return nil
}

func (b *Booking) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

// IsPaid reports whether the booking reached the terminal paid state.
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}
