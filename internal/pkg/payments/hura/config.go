package hura

import (
	"strings"
	"time"

	"github.com/estadia-app/estadia/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.hurapayments.com.br/v1"

// defaultPaidStatuses is the provisional set of gateway statuses treated as
// payment completion. The authoritative vocabulary was never fully documented
// by the provider, so deployments can override it via HURA_PAID_STATUSES.
var defaultPaidStatuses = []string{"paid", "approved", "confirmed", "success", "completed"}

// Config holds the gateway settings. It is assembled once at startup and
// injected into the client and service, never read from the environment at
// call time.
type Config struct {
	PublicKey    string
	SecretKey    string
	APIBaseURL   string
	PostbackURL  string
	PaidStatuses []string
	Timeout      time.Duration
}

// NewConfigFromEnv builds the gateway configuration from the environment.
func NewConfigFromEnv() Config {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	postbackURL := strings.TrimSpace(env.GetEnv("HURA_POSTBACK_URL", ""))
	if postbackURL == "" && base != "" {
		postbackURL = base + "/api/v1/payments/hura/postback"
	}

	paidStatuses := defaultPaidStatuses
	if raw := strings.TrimSpace(env.GetEnv("HURA_PAID_STATUSES", "")); raw != "" {
		paidStatuses = splitStatusList(raw)
	}

	return Config{
		PublicKey:    strings.TrimSpace(env.GetEnv("HURA_PUBLIC_KEY", "")),
		SecretKey:    strings.TrimSpace(env.GetEnv("HURA_SECRET_KEY", "")),
		APIBaseURL:   strings.TrimSpace(env.GetEnv("HURA_API_BASE_URL", defaultAPIBaseURL)),
		PostbackURL:  postbackURL,
		PaidStatuses: paidStatuses,
		Timeout:      15 * time.Second,
	}
}

// HasCredentials reports whether both halves of the Basic-auth key pair are set.
func (c Config) HasCredentials() bool {
	return c.PublicKey != "" && c.SecretKey != ""
}

func splitStatusList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := NormalizeStatus(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
