package hura

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "PAID", want: "paid"},
		{in: "  Approved ", want: "approved"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPaidStatus_DefaultSet(t *testing.T) {
	cfg := Config{PaidStatuses: defaultPaidStatuses}

	for _, s := range []string{"paid", "APPROVED", "Confirmed", "success", "completed"} {
		if !cfg.IsPaidStatus(s) {
			t.Fatalf("expected %q to classify as paid", s)
		}
	}
	for _, s := range []string{"pending", "created", "refused", ""} {
		if cfg.IsPaidStatus(s) {
			t.Fatalf("expected %q not to classify as paid", s)
		}
	}
}

func TestIsPaidStatus_OverriddenSet(t *testing.T) {
	cfg := Config{PaidStatuses: splitStatusList("Settled, PAID_OUT")}

	if !cfg.IsPaidStatus("settled") || !cfg.IsPaidStatus("paid_out") {
		t.Fatalf("expected overridden statuses to classify as paid")
	}
	if cfg.IsPaidStatus("paid") {
		t.Fatalf("expected default status to be replaced by the override")
	}
}
