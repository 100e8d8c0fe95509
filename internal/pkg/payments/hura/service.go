package hura

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/estadia-app/estadia/app/models"
)

// Store is the persistence surface the payment flow needs. The concrete
// implementation wraps the repository layer; tests use an in-memory fake.
type Store interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	UpdateTransactionByProviderID(ctx context.Context, provider, providerTxID, status string, raw models.JSON) (int64, error)
	MarkBookingPaid(ctx context.Context, bookingID string) error
	MarkBookingPaymentFailed(ctx context.Context, bookingID string) error
}

// Service implements the PIX payment flow against HuraPayments: transaction
// initiation on the inbound side, postback reconciliation on the async side.
type Service struct {
	cfg     Config
	store   Store
	gateway Gateway
}

func NewService(cfg Config, store Store, gateway Gateway) *Service {
	return &Service{
		cfg:     cfg,
		store:   store,
		gateway: gateway,
	}
}

// InitiatePixPayment validates the request, creates a PIX transaction at the
// gateway and persists the attempt. Gateway rejections are recorded as failed
// transactions and mark the booking payment_failed before the error is
// returned. Persistence failures after a successful gateway call are logged
// but do not block the payment material from reaching the caller.
func (s *Service) InitiatePixPayment(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	if err := validateInitiateRequest(req); err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, strings.TrimSpace(req.BookingID))
	if err != nil {
		return nil, err
	}

	items := normalizeItems(req.AmountCents, req.Items)
	payload := s.buildCreatePayload(req, items)

	rawBody, err := s.gateway.CreatePixTransaction(ctx, payload)
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			s.recordGatewayRejection(ctx, booking.ID, req.AmountCents, gwErr)
		}
		return nil, err
	}

	fields := extractCreateFields(rawBody)

	tx := &models.PaymentTransaction{
		BookingID:   booking.ID,
		AmountCents: req.AmountCents,
		Status:      fields.Status,
		Raw:         rawJSON(rawBody),
	}
	if fields.TransactionID != "" {
		tx.ProviderTransactionID = &fields.TransactionID
	}
	if fields.QRCode != "" {
		tx.PixQRCode = &fields.QRCode
	}
	if fields.CopyPaste != "" {
		tx.PixCopyPaste = &fields.CopyPaste
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		// The payer already has a live charge at the gateway at this point,
		// so a failed audit insert must not hide the PIX material.
		log.Printf("[Hura] failed to persist transaction for booking %s: %v", booking.ID, err)
	}

	result := &InitiateResult{
		Provider: models.PaymentProviderHura,
		Status:   fields.Status,
		Pix: PixMaterial{
			QRCode:    tx.PixQRCode,
			CopyPaste: tx.PixCopyPaste,
		},
		Raw: json.RawMessage(tx.Raw),
	}
	result.ProviderTransactionID = tx.ProviderTransactionID
	return result, nil
}

// HandlePostback processes one asynchronous gateway notification. Transaction
// update failures are logged and the delivery still acknowledged; a failure
// to mark the booking paid is returned as an error so the gateway retries.
func (s *Service) HandlePostback(ctx context.Context, body []byte) (*PostbackResult, error) {
	fields := extractPostbackFields(body)
	result := &PostbackResult{
		Outcome:               PostbackIgnored,
		ProviderTransactionID: fields.TransactionID,
		BookingID:             fields.BookingID,
		Status:                fields.Status,
	}

	if fields.TransactionID != "" {
		affected, err := s.store.UpdateTransactionByProviderID(ctx, models.PaymentProviderHura, fields.TransactionID, fields.Status, rawJSON(body))
		if err != nil {
			log.Printf("[Hura] postback: update transaction %s failed: %v", fields.TransactionID, err)
		} else if affected > 0 {
			result.Outcome = PostbackTransactionUpdated
		} else {
			log.Printf("[Hura] postback: no transaction matched provider id %s", fields.TransactionID)
		}
	}

	if fields.BookingID != "" && s.cfg.IsPaidStatus(fields.Status) {
		if err := s.store.MarkBookingPaid(ctx, fields.BookingID); err != nil {
			return result, fmt.Errorf("mark booking %s paid: %w", fields.BookingID, err)
		}
		result.Outcome = PostbackBookingPaid
	}

	return result, nil
}

func (s *Service) recordGatewayRejection(ctx context.Context, bookingID string, amountCents int64, gwErr *GatewayError) {
	tx := &models.PaymentTransaction{
		BookingID:   bookingID,
		AmountCents: amountCents,
		Status:      "failed",
		Raw:         rawJSON(gwErr.RawBody),
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		log.Printf("[Hura] failed to persist rejected transaction for booking %s: %v", bookingID, err)
	}
	if err := s.store.MarkBookingPaymentFailed(ctx, bookingID); err != nil {
		log.Printf("[Hura] failed to mark booking %s payment_failed: %v", bookingID, err)
	}
}

func (s *Service) buildCreatePayload(req InitiateRequest, items []Item) map[string]interface{} {
	itemsPayload := make([]map[string]interface{}, len(items))
	for i, it := range items {
		// Both key spellings are sent because the gateway's field naming has
		// varied between API revisions.
		itemsPayload[i] = map[string]interface{}{
			"title":      it.Title,
			"quantity":   it.Quantity,
			"unitPrice":  it.UnitPrice,
			"unit_price": it.UnitPrice,
		}
	}

	metadata := map[string]interface{}{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["booking_id"] = strings.TrimSpace(req.BookingID)

	payload := map[string]interface{}{
		"amount":         req.AmountCents,
		"payment_method": "pix",
		"postback_url":   s.cfg.PostbackURL,
		"customer": map[string]interface{}{
			"name":  strings.TrimSpace(req.Guest.Name),
			"email": strings.TrimSpace(req.Guest.Email),
			"phone": strings.TrimSpace(req.Guest.Phone),
			"document": map[string]interface{}{
				"type":   "cpf",
				"number": digitsOnly(req.Guest.CPF),
			},
		},
		"items":    itemsPayload,
		"metadata": metadata,
	}
	if req.ClientIP != "" {
		payload["ip"] = req.ClientIP
	}
	return payload
}

func validateInitiateRequest(req InitiateRequest) error {
	if strings.TrimSpace(req.BookingID) == "" {
		return validationErrorf("bookingId is required")
	}
	if req.AmountCents <= 0 {
		return validationErrorf("amountCents must be a positive integer")
	}
	if strings.TrimSpace(req.Guest.Name) == "" {
		return validationErrorf("guest.name is required")
	}
	if strings.TrimSpace(req.Guest.Email) == "" {
		return validationErrorf("guest.email is required")
	}
	if strings.TrimSpace(req.Guest.Phone) == "" {
		return validationErrorf("guest.phone is required")
	}
	if len(digitsOnly(req.Guest.CPF)) != 11 {
		return validationErrorf("guest.cpf must contain exactly 11 digits")
	}
	if len(req.Items) == 0 {
		return validationErrorf("items must not be empty")
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.Title) == "" {
			return validationErrorf("items[%d].title is required", i)
		}
		if it.Quantity <= 0 {
			return validationErrorf("items[%d].quantity must be a positive integer", i)
		}
	}
	return nil
}

// normalizeItems reconciles the item unit prices with the charged amount. The
// gateway rejects non-positive unit prices, and callers have been seen sending
// prices that do not sum to the amount, so any inconsistency replaces every
// unit price with a uniform floor(amountCents/totalQuantity), minimum 1.
func normalizeItems(amountCents int64, items []Item) []Item {
	var totalQuantity, sum int64
	consistent := true
	for _, it := range items {
		totalQuantity += it.Quantity
		if it.UnitPrice <= 0 {
			consistent = false
			continue
		}
		sum += it.Quantity * it.UnitPrice
	}
	if consistent && sum == amountCents {
		return items
	}

	fallback := amountCents / totalQuantity
	if fallback < 1 {
		fallback = 1
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{Title: it.Title, Quantity: it.Quantity, UnitPrice: fallback}
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// rawJSON turns an arbitrary gateway body into a storable JSON document,
// wrapping non-JSON bodies so the audit column always holds valid JSON.
func rawJSON(body []byte) models.JSON {
	if json.Valid(body) && len(body) > 0 {
		return models.JSON(body)
	}
	wrapped, _ := json.Marshal(map[string]string{"raw": string(body)})
	return models.JSON(wrapped)
}
