package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a rental listing managed through the admin panel.
// PricePerNightCents keeps money in integer minor units end to end.
type Property struct {
	ID                 string           `gorm:"type:char(36);primaryKey" json:"id"`
	HostID             uint             `gorm:"index" json:"host_id"`
	Title              string           `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=3,max=200"`
	Description        string           `gorm:"type:text" json:"description"`
	City               string           `gorm:"type:varchar(100);not null;index" json:"city" validate:"required,max=100"`
	PricePerNightCents int64            `gorm:"not null" json:"price_per_night_cents" validate:"required,gt=0"`
	Bedrooms           int              `gorm:"default:1" json:"bedrooms" validate:"gte=0"`
	Bathrooms          int              `gorm:"default:1" json:"bathrooms" validate:"gte=0"`
	Guests             int              `gorm:"default:2" json:"guests" validate:"gte=1"`
	Amenities          JSON             `gorm:"type:longtext" json:"amenities"`
	ImageURL           string           `gorm:"type:varchar(500)" json:"image_url"`
	Rating             float64          `gorm:"default:0" json:"rating"`
	Active             bool             `gorm:"default:true;index" json:"active"`
	Photos             []PropertyPhoto  `gorm:"foreignKey:PropertyID" json:"photos,omitempty"`
	Reviews            []PropertyReview `gorm:"foreignKey:PropertyID" json:"reviews,omitempty"`
	CreatedAt          time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Property) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// PropertyPhoto is an externally hosted gallery image for a listing.
type PropertyPhoto struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	PropertyID string    `gorm:"type:char(36);not null;index" json:"property_id"`
	URL        string    `gorm:"type:varchar(500);not null" json:"url" validate:"required,url"`
	SortOrder  int       `gorm:"default:0" json:"sort_order"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *PropertyPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PropertyReview is a guest review shown on the listing detail page.
type PropertyReview struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	PropertyID string    `gorm:"type:char(36);not null;index" json:"property_id"`
	AuthorName string    `gorm:"type:varchar(150);not null" json:"author_name" validate:"required,max=150"`
	Rating     int       `gorm:"not null" json:"rating" validate:"required,min=1,max=5"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *PropertyReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *PropertyReview) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

// Favorite marks a property saved by a logged-in user.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:ux_favorites_user_property,unique,priority:1" json:"user_id"`
	PropertyID string    `gorm:"type:char(36);not null;index:ux_favorites_user_property,unique,priority:2" json:"property_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
