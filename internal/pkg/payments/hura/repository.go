package hura

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/estadia-app/estadia/app/models"
	"github.com/estadia-app/estadia/app/repository"
)

// repositoryStore adapts the repository layer to the Store interface.
type repositoryStore struct {
	repos *repository.Repositories
}

func NewRepositoryStore(repos *repository.Repositories) Store {
	return &repositoryStore{repos: repos}
}

func (s *repositoryStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	booking, err := s.repos.Booking.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	return booking, err
}

func (s *repositoryStore) CreateTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	return s.repos.PaymentTransaction.Create(tx)
}

func (s *repositoryStore) UpdateTransactionByProviderID(_ context.Context, provider, providerTxID, status string, raw models.JSON) (int64, error) {
	return s.repos.PaymentTransaction.UpdateByProviderTransactionID(provider, providerTxID, status, raw)
}

func (s *repositoryStore) MarkBookingPaid(_ context.Context, bookingID string) error {
	return s.repos.Booking.MarkPaid(bookingID)
}

func (s *repositoryStore) MarkBookingPaymentFailed(_ context.Context, bookingID string) error {
	return s.repos.Booking.MarkPaymentFailed(bookingID)
}
