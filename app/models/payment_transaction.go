package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentProviderHura is the one provider integrated today.
const PaymentProviderHura = "hurapayments"

// PaymentTransaction records one attempted gateway call. A booking may
// accumulate several rows (double submits are legitimate retries); rows are
// never deleted. Status mirrors the provider vocabulary and is deliberately
// not a closed enum. ProviderTransactionID, once set, is the postback
// correlation key and unique per provider.
type PaymentTransaction struct {
	ID                    string    `gorm:"type:char(36);primaryKey" json:"id"`
	BookingID             string    `gorm:"type:char(36);not null;index" json:"booking_id"`
	Provider              string    `gorm:"type:varchar(40);not null;index:ux_payment_tx_provider_tx,unique,priority:1" json:"provider"`
	ProviderTransactionID *string   `gorm:"type:varchar(191);index:ux_payment_tx_provider_tx,unique,priority:2" json:"provider_transaction_id"`
	AmountCents           int64     `gorm:"not null" json:"amount_cents"`
	Status                string    `gorm:"type:varchar(64);not null" json:"status"`
	PixQRCode             *string   `gorm:"type:text" json:"pix_qr_code,omitempty"`
	PixCopyPaste          *string   `gorm:"type:text" json:"pix_copy_paste,omitempty"`
	Raw                   JSON      `gorm:"type:longtext" json:"raw"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Provider == "" {
		t.Provider = PaymentProviderHura
	}
	return nil
}
