package repository

import (
	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
)

// paymentTransactionRepository implements the PaymentTransactionRepository interface
type paymentTransactionRepository struct {
	db *gorm.DB
}

// NewPaymentTransactionRepository creates a new payment transaction repository instance
func NewPaymentTransactionRepository(db *gorm.DB) PaymentTransactionRepository {
	return &paymentTransactionRepository{db: db}
}

// Create inserts a new transaction attempt. Rows are append-only; a booking
// legitimately accumulates one row per attempt.
func (r *paymentTransactionRepository) Create(tx *models.PaymentTransaction) error {
	return r.db.Create(tx).Error
}

// GetByProviderTransactionID resolves the postback correlation key
func (r *paymentTransactionRepository) GetByProviderTransactionID(provider, providerTxID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := r.db.Where("provider = ? AND provider_transaction_id = ?", provider, providerTxID).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateByProviderTransactionID updates status and raw payload of the matching
// transaction and reports how many rows were touched.
func (r *paymentTransactionRepository) UpdateByProviderTransactionID(provider, providerTxID, status string, raw models.JSON) (int64, error) {
	updates := map[string]interface{}{"raw": raw}
	if status != "" {
		updates["status"] = status
	}
	result := r.db.Model(&models.PaymentTransaction{}).
		Where("provider = ? AND provider_transaction_id = ?", provider, providerTxID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ListByBookingID returns all attempts for one booking, newest first
func (r *paymentTransactionRepository) ListByBookingID(bookingID string) ([]models.PaymentTransaction, error) {
	var txs []models.PaymentTransaction
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

// List retrieves a paginated list of all transactions plus the total count
func (r *paymentTransactionRepository) List(offset, limit int) ([]models.PaymentTransaction, int64, error) {
	var total int64
	if err := r.db.Model(&models.PaymentTransaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txs []models.PaymentTransaction
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}
