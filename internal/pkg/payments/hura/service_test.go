package hura

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/estadia-app/estadia/app/models"
)

type txUpdate struct {
	provider string
	txID     string
	status   string
}

type fakeStore struct {
	bookings map[string]*models.Booking

	created   []*models.PaymentTransaction
	createErr error

	updates        []txUpdate
	updateAffected int64
	updateErr      error

	paid        []string
	markPaidErr error

	failed []string
}

func newFakeStore(bookingIDs ...string) *fakeStore {
	s := &fakeStore{bookings: map[string]*models.Booking{}, updateAffected: 1}
	for _, id := range bookingIDs {
		s.bookings[id] = &models.Booking{ID: id, PaymentStatus: models.PaymentStatusPending}
	}
	return s
}

func (s *fakeStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *fakeStore) CreateTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, tx)
	return nil
}

func (s *fakeStore) UpdateTransactionByProviderID(_ context.Context, provider, txID, status string, _ models.JSON) (int64, error) {
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	s.updates = append(s.updates, txUpdate{provider: provider, txID: txID, status: status})
	return s.updateAffected, nil
}

func (s *fakeStore) MarkBookingPaid(_ context.Context, bookingID string) error {
	if s.markPaidErr != nil {
		return s.markPaidErr
	}
	s.paid = append(s.paid, bookingID)
	if b, ok := s.bookings[bookingID]; ok {
		now := time.Now()
		b.PaymentStatus = models.PaymentStatusPaid
		b.PaidAt = &now
	}
	return nil
}

func (s *fakeStore) MarkBookingPaymentFailed(_ context.Context, bookingID string) error {
	s.failed = append(s.failed, bookingID)
	if b, ok := s.bookings[bookingID]; ok && b.PaymentStatus == models.PaymentStatusPending {
		b.PaymentStatus = models.PaymentStatusFailed
	}
	return nil
}

type fakeGateway struct {
	payloads []map[string]interface{}
	response []byte
	err      error
}

func (g *fakeGateway) CreatePixTransaction(_ context.Context, payload map[string]interface{}) ([]byte, error) {
	g.payloads = append(g.payloads, payload)
	if g.err != nil {
		return nil, g.err
	}
	return g.response, nil
}

func serviceConfig() Config {
	return Config{
		PublicKey:    "pk",
		SecretKey:    "sk",
		APIBaseURL:   defaultAPIBaseURL,
		PostbackURL:  "https://estadia.example/api/v1/payments/hura/postback",
		PaidStatuses: defaultPaidStatuses,
		Timeout:      5 * time.Second,
	}
}

func validRequest() InitiateRequest {
	return InitiateRequest{
		BookingID:   "b1",
		AmountCents: 120000,
		Guest: Guest{
			Name:  "Maria Silva",
			Email: "maria@example.com",
			Phone: "+55 11 99999-0000",
			CPF:   "123.456.789-00",
		},
		Items: []Item{
			{Title: "Estadia 3 noites", Quantity: 3, UnitPrice: 40000},
		},
	}
}

func TestInitiatePixPayment_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InitiateRequest)
	}{
		{name: "missing bookingId", mutate: func(r *InitiateRequest) { r.BookingID = " " }},
		{name: "zero amount", mutate: func(r *InitiateRequest) { r.AmountCents = 0 }},
		{name: "negative amount", mutate: func(r *InitiateRequest) { r.AmountCents = -1 }},
		{name: "missing guest name", mutate: func(r *InitiateRequest) { r.Guest.Name = "" }},
		{name: "missing guest email", mutate: func(r *InitiateRequest) { r.Guest.Email = "" }},
		{name: "missing guest phone", mutate: func(r *InitiateRequest) { r.Guest.Phone = "" }},
		{name: "cpf too short", mutate: func(r *InitiateRequest) { r.Guest.CPF = "123.456.789" }},
		{name: "cpf too long", mutate: func(r *InitiateRequest) { r.Guest.CPF = "123456789001" }},
		{name: "no items", mutate: func(r *InitiateRequest) { r.Items = nil }},
		{name: "item without title", mutate: func(r *InitiateRequest) { r.Items[0].Title = "" }},
		{name: "item zero quantity", mutate: func(r *InitiateRequest) { r.Items[0].Quantity = 0 }},
	}

	for _, tt := range tests {
		store := newFakeStore("b1")
		gateway := &fakeGateway{response: []byte(`{}`)}
		svc := NewService(serviceConfig(), store, gateway)

		req := validRequest()
		tt.mutate(&req)

		_, err := svc.InitiatePixPayment(context.Background(), req)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected *ValidationError, got %v", tt.name, err)
		}
		if len(gateway.payloads) != 0 {
			t.Fatalf("%s: gateway must not be called on validation failure", tt.name)
		}
		if len(store.created) != 0 || len(store.failed) != 0 {
			t.Fatalf("%s: no persistence side effects expected on validation failure", tt.name)
		}
	}
}

func TestInitiatePixPayment_CPFFormatsAccepted(t *testing.T) {
	store := newFakeStore("b1")
	gateway := &fakeGateway{response: []byte(`{"data":{"id":"tx1"}}`)}
	svc := NewService(serviceConfig(), store, gateway)

	req := validRequest()
	req.Guest.CPF = "123.456.789-00"
	if _, err := svc.InitiatePixPayment(context.Background(), req); err != nil {
		t.Fatalf("formatted 11-digit CPF rejected: %v", err)
	}

	doc := gateway.payloads[0]["customer"].(map[string]interface{})["document"].(map[string]interface{})
	if doc["type"] != "cpf" || doc["number"] != "12345678900" {
		t.Fatalf("document block = %v, want stripped cpf digits", doc)
	}
}

func TestInitiatePixPayment_BookingNotFound(t *testing.T) {
	svc := NewService(serviceConfig(), newFakeStore(), &fakeGateway{response: []byte(`{}`)})

	_, err := svc.InitiatePixPayment(context.Background(), validRequest())
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestNormalizeItems(t *testing.T) {
	tests := []struct {
		name        string
		amountCents int64
		items       []Item
		wantUnit    int64
		untouched   bool
	}{
		{
			name:        "consistent prices kept",
			amountCents: 120000,
			items:       []Item{{Title: "stay", Quantity: 3, UnitPrice: 40000}},
			untouched:   true,
		},
		{
			name:        "inconsistent sum recomputed",
			amountCents: 100000,
			items:       []Item{{Title: "stay", Quantity: 3, UnitPrice: 40000}},
			wantUnit:    33333,
		},
		{
			name:        "zero unit price recomputed",
			amountCents: 90000,
			items:       []Item{{Title: "stay", Quantity: 2, UnitPrice: 0}, {Title: "fee", Quantity: 1, UnitPrice: 5000}},
			wantUnit:    30000,
		},
		{
			name:        "fallback floors at one",
			amountCents: 2,
			items:       []Item{{Title: "stay", Quantity: 5, UnitPrice: 0}},
			wantUnit:    1,
		},
	}

	for _, tt := range tests {
		got := normalizeItems(tt.amountCents, tt.items)
		if tt.untouched {
			for i := range got {
				if got[i].UnitPrice != tt.items[i].UnitPrice {
					t.Fatalf("%s: unit price changed unexpectedly", tt.name)
				}
			}
			continue
		}
		for _, it := range got {
			if it.UnitPrice != tt.wantUnit {
				t.Fatalf("%s: unit price = %d, want %d", tt.name, it.UnitPrice, tt.wantUnit)
			}
		}
	}
}

func TestInitiatePixPayment_GatewayRejection(t *testing.T) {
	store := newFakeStore("b1")
	gateway := &fakeGateway{err: &GatewayError{StatusCode: 500, RawBody: []byte(`{"error":"boom"}`)}}
	svc := NewService(serviceConfig(), store, gateway)

	_, err := svc.InitiatePixPayment(context.Background(), validRequest())

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *GatewayError, got %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one failed transaction row, got %d", len(store.created))
	}
	tx := store.created[0]
	if tx.Status != "failed" {
		t.Fatalf("transaction status = %q, want failed", tx.Status)
	}
	if tx.ProviderTransactionID != nil {
		t.Fatalf("expected nil provider transaction id on rejection")
	}
	if store.bookings["b1"].PaymentStatus != models.PaymentStatusFailed {
		t.Fatalf("booking status = %q, want payment_failed", store.bookings["b1"].PaymentStatus)
	}
}

func TestInitiatePixPayment_Success(t *testing.T) {
	store := newFakeStore("b1")
	gateway := &fakeGateway{response: []byte(`{"data":{"id":"tx1","status":"paid","pix":{"qr_code":"X"}}}`)}
	svc := NewService(serviceConfig(), store, gateway)

	result, err := svc.InitiatePixPayment(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("InitiatePixPayment returned error: %v", err)
	}

	if result.Provider != models.PaymentProviderHura {
		t.Fatalf("provider = %q, want %q", result.Provider, models.PaymentProviderHura)
	}
	if result.ProviderTransactionID == nil || *result.ProviderTransactionID != "tx1" {
		t.Fatalf("providerTransactionId = %v, want tx1", result.ProviderTransactionID)
	}
	if result.Status != "paid" {
		t.Fatalf("status = %q, want paid", result.Status)
	}
	if result.Pix.QRCode == nil || *result.Pix.QRCode != "X" {
		t.Fatalf("pix.qrCode = %v, want X", result.Pix.QRCode)
	}
	if result.Pix.CopyPaste == nil || *result.Pix.CopyPaste != "X" {
		t.Fatalf("pix.copyPaste = %v, want fallback X", result.Pix.CopyPaste)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected one persisted transaction, got %d", len(store.created))
	}
	tx := store.created[0]
	if tx.BookingID != "b1" || tx.AmountCents != 120000 {
		t.Fatalf("persisted tx = %+v, want booking b1 amount 120000", tx)
	}

	payload := gateway.payloads[0]
	if payload["amount"] != int64(120000) || payload["payment_method"] != "pix" {
		t.Fatalf("gateway payload = %v", payload)
	}
	if payload["postback_url"] != serviceConfig().PostbackURL {
		t.Fatalf("postback_url = %v", payload["postback_url"])
	}
	items := payload["items"].([]map[string]interface{})
	if items[0]["unitPrice"] != int64(40000) || items[0]["unit_price"] != int64(40000) {
		t.Fatalf("item payload must carry both unit price spellings, got %v", items[0])
	}
	meta := payload["metadata"].(map[string]interface{})
	if meta["booking_id"] != "b1" {
		t.Fatalf("metadata booking_id = %v, want b1", meta["booking_id"])
	}
}

func TestInitiatePixPayment_PersistenceErrorNotSurfaced(t *testing.T) {
	store := newFakeStore("b1")
	store.createErr = errors.New("db down")
	gateway := &fakeGateway{response: []byte(`{"data":{"id":"tx1","pix":{"qr_code":"X"}}}`)}
	svc := NewService(serviceConfig(), store, gateway)

	result, err := svc.InitiatePixPayment(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("persistence failure must not block payment material, got %v", err)
	}
	if result.Pix.QRCode == nil || *result.Pix.QRCode != "X" {
		t.Fatalf("expected PIX material despite persistence failure")
	}
}

func TestHandlePostback_BookingPaid(t *testing.T) {
	store := newFakeStore("b1")
	svc := NewService(serviceConfig(), store, &fakeGateway{})

	body := []byte(`{"id":"tx1","status":"APPROVED","metadata":{"booking_id":"b1"}}`)
	result, err := svc.HandlePostback(context.Background(), body)
	if err != nil {
		t.Fatalf("HandlePostback returned error: %v", err)
	}

	if result.Outcome != PostbackBookingPaid {
		t.Fatalf("outcome = %q, want booking_paid", result.Outcome)
	}
	if store.bookings["b1"].PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("booking status = %q, want paid", store.bookings["b1"].PaymentStatus)
	}
	if store.bookings["b1"].PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}
	if len(store.updates) != 1 || store.updates[0].status != "approved" {
		t.Fatalf("transaction update = %+v, want normalized status approved", store.updates)
	}
	if store.updates[0].provider != models.PaymentProviderHura || store.updates[0].txID != "tx1" {
		t.Fatalf("transaction correlation = %+v", store.updates[0])
	}
}

func TestHandlePostback_Idempotent(t *testing.T) {
	store := newFakeStore("b1")
	svc := NewService(serviceConfig(), store, &fakeGateway{})

	body := []byte(`{"id":"tx1","status":"paid","metadata":{"booking_id":"b1"}}`)
	for i := 0; i < 2; i++ {
		result, err := svc.HandlePostback(context.Background(), body)
		if err != nil {
			t.Fatalf("delivery %d returned error: %v", i+1, err)
		}
		if result.Outcome != PostbackBookingPaid {
			t.Fatalf("delivery %d outcome = %q, want booking_paid", i+1, result.Outcome)
		}
	}
	if store.bookings["b1"].PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("booking left in %q after redelivery", store.bookings["b1"].PaymentStatus)
	}
}

func TestHandlePostback_TransactionOnlyUpdate(t *testing.T) {
	store := newFakeStore("b1")
	svc := NewService(serviceConfig(), store, &fakeGateway{})

	result, err := svc.HandlePostback(context.Background(), []byte(`{"id":"tx1","status":"refused"}`))
	if err != nil {
		t.Fatalf("HandlePostback returned error: %v", err)
	}
	if result.Outcome != PostbackTransactionUpdated {
		t.Fatalf("outcome = %q, want transaction_updated", result.Outcome)
	}
	if len(store.paid) != 0 {
		t.Fatalf("no booking should be marked paid for a non-completed status")
	}
}

func TestHandlePostback_NonActionable(t *testing.T) {
	store := newFakeStore()
	svc := NewService(serviceConfig(), store, &fakeGateway{})

	tests := [][]byte{
		[]byte(`{}`),
		[]byte(`not json`),
	}
	for _, body := range tests {
		result, err := svc.HandlePostback(context.Background(), body)
		if err != nil {
			t.Fatalf("non-actionable postback must be acknowledged, got %v", err)
		}
		if result.Outcome != PostbackIgnored {
			t.Fatalf("outcome = %q, want ignored", result.Outcome)
		}
	}
}

func TestHandlePostback_UpdateFailureNotFatal(t *testing.T) {
	store := newFakeStore("b1")
	store.updateErr = errors.New("db down")
	svc := NewService(serviceConfig(), store, &fakeGateway{})

	result, err := svc.HandlePostback(context.Background(), []byte(`{"id":"tx1","status":"paid","metadata":{"booking_id":"b1"}}`))
	if err != nil {
		t.Fatalf("transaction update failure must not fail the delivery, got %v", err)
	}
	if result.Outcome != PostbackBookingPaid {
		t.Fatalf("outcome = %q, want booking_paid despite update failure", result.Outcome)
	}
}

func TestHandlePostback_MarkPaidFailure(t *testing.T) {
	store := newFakeStore("b1")
	store.markPaidErr = errors.New("db down")
	svc := NewService(serviceConfig(), store, &fakeGateway{})

	_, err := svc.HandlePostback(context.Background(), []byte(`{"id":"tx1","status":"paid","metadata":{"booking_id":"b1"}}`))
	if err == nil {
		t.Fatalf("expected error so the gateway retries the delivery")
	}
}
