package hura

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Gateway is the outbound side of the payment flow. The service talks to it
// through this interface so tests can swap in a recording fake.
type Gateway interface {
	CreatePixTransaction(ctx context.Context, payload map[string]interface{}) ([]byte, error)
}

// Client calls the HuraPayments HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreatePixTransaction posts a new PIX charge to the gateway and returns the
// raw response body. Non-2xx responses come back as *GatewayError so callers
// can distinguish gateway rejections from transport failures.
func (c *Client) CreatePixTransaction(ctx context.Context, payload map[string]interface{}) ([]byte, error) {
	if !c.cfg.HasCredentials() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(c.cfg.APIBaseURL, "/") + "/payment-transaction/create"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.basicAuth())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, RawBody: respBody}
	}

	return respBody, nil
}

func (c *Client) basicAuth() string {
	creds := c.cfg.PublicKey + ":" + c.cfg.SecretKey
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}
