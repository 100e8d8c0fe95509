package hura

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Guest is the payer block required by the gateway. CPF is the Brazilian
// 11-digit taxpayer id; the gateway rejects PIX charges without it.
type Guest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	CPF   string `json:"cpf"`
}

// Item is one checkout line item. UnitPrice is in integer cents.
type Item struct {
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// InitiateRequest is the inbound shape for creating a PIX transaction.
type InitiateRequest struct {
	BookingID   string                 `json:"bookingId"`
	AmountCents int64                  `json:"amountCents"`
	Guest       Guest                  `json:"guest"`
	Items       []Item                 `json:"items"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ClientIP    string                 `json:"-"`
}

// PixMaterial carries what the payer needs to complete the charge: the EMV
// payload rendered as a QR code, and the same payload as a copy-paste string.
type PixMaterial struct {
	QRCode    *string `json:"qrCode"`
	CopyPaste *string `json:"copyPaste"`
}

// InitiateResult is the successful outcome of a transaction creation.
type InitiateResult struct {
	Provider              string          `json:"provider"`
	ProviderTransactionID *string         `json:"providerTransactionId"`
	Status                string          `json:"status"`
	Pix                   PixMaterial     `json:"pix"`
	Raw                   json.RawMessage `json:"raw"`
}

// PostbackOutcome states what a postback delivery actually changed.
type PostbackOutcome string

const (
	PostbackIgnored            PostbackOutcome = "ignored"
	PostbackTransactionUpdated PostbackOutcome = "transaction_updated"
	PostbackBookingPaid        PostbackOutcome = "booking_paid"
)

// PostbackResult summarizes the processing of one gateway notification.
type PostbackResult struct {
	Outcome               PostbackOutcome
	ProviderTransactionID string
	BookingID             string
	Status                string
}

// ErrBookingNotFound marks an initiation against an unknown booking.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotConfigured marks missing gateway credentials.
var ErrNotConfigured = errors.New("hura credentials are not configured")

// ValidationError marks caller mistakes that must never reach the gateway.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// GatewayError is a non-success response from the gateway's create endpoint.
// RawBody is kept verbatim for the failure audit row and the caller's
// diagnostics.
type GatewayError struct {
	StatusCode int
	RawBody    []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("hura create transaction failed: status=%d body=%s", e.StatusCode, string(e.RawBody))
}
