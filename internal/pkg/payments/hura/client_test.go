package hura

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(baseURL string) Config {
	return Config{
		PublicKey:    "pk_test",
		SecretKey:    "sk_test",
		APIBaseURL:   baseURL,
		PostbackURL:  "https://estadia.example/api/v1/payments/hura/postback",
		PaidStatuses: defaultPaidStatuses,
		Timeout:      5 * time.Second,
	}
}

func TestClientCreatePixTransaction_Success(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"tx1","status":"created"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	raw, err := client.CreatePixTransaction(context.Background(), map[string]interface{}{
		"amount":         int64(12000),
		"payment_method": "pix",
	})
	if err != nil {
		t.Fatalf("CreatePixTransaction returned error: %v", err)
	}

	if gotPath != "/payment-transaction/create" {
		t.Fatalf("path = %q, want /payment-transaction/create", gotPath)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("pk_test:sk_test"))
	if gotAuth != wantAuth {
		t.Fatalf("Authorization = %q, want %q", gotAuth, wantAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotPayload["payment_method"] != "pix" {
		t.Fatalf("payload payment_method = %v, want pix", gotPayload["payment_method"])
	}
	if got := extractCreateFields(raw); got.TransactionID != "tx1" {
		t.Fatalf("expected raw body to round-trip, got %+v", got)
	}
}

func TestClientCreatePixTransaction_GatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"invalid document"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.CreatePixTransaction(context.Background(), map[string]interface{}{})

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *GatewayError, got %v", err)
	}
	if gwErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("StatusCode = %d, want 422", gwErr.StatusCode)
	}
	if string(gwErr.RawBody) != `{"error":"invalid document"}` {
		t.Fatalf("RawBody = %q, want raw gateway body", gwErr.RawBody)
	}
}

func TestClientCreatePixTransaction_MissingCredentials(t *testing.T) {
	cfg := testConfig("https://api.hurapayments.example")
	cfg.SecretKey = ""

	client := NewClient(cfg)
	_, err := client.CreatePixTransaction(context.Background(), map[string]interface{}{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
