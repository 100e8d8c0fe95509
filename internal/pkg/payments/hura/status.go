package hura

import "strings"

// NormalizeStatus lowercases and trims a provider status token. The gateway
// has been observed sending the same status in different casings.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsPaidStatus classifies a normalized status token as payment completion
// against the configured allow-list.
func (c Config) IsPaidStatus(status string) bool {
	normalized := NormalizeStatus(status)
	if normalized == "" {
		return false
	}
	for _, paid := range c.PaidStatuses {
		if normalized == paid {
			return true
		}
	}
	return false
}
