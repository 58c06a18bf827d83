package alerts

import (
	"strings"
	"testing"
)

func TestAlertMessageJSONRoundTrip(t *testing.T) {
	msg := NewBudgetOverrunMessage(50000, 62500)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := AlertMessageFromJSON(data)
	if err != nil {
		t.Fatalf("AlertMessageFromJSON: %v", err)
	}
	if got.Kind != KindBudgetOverrun {
		t.Errorf("kind = %v, want %v", got.Kind, KindBudgetOverrun)
	}
	if got.Amount == nil || *got.Amount != 12500 {
		t.Errorf("amount = %v, want 12500", got.Amount)
	}
	if got.Detail != msg.Detail {
		t.Errorf("detail changed in round trip: %q vs %q", got.Detail, msg.Detail)
	}
}

func TestNewBudgetOverrunMessage(t *testing.T) {
	msg := NewBudgetOverrunMessage(50000, 62500)
	if msg.Severity != "warning" {
		t.Errorf("severity = %q, want warning", msg.Severity)
	}
	// 12500 over a 50000 limit is 25%.
	if !strings.Contains(msg.Detail, "25.0%") {
		t.Errorf("detail missing overage percentage: %q", msg.Detail)
	}
	if !strings.Contains(msg.Detail, "12500.00") {
		t.Errorf("detail missing overage amount: %q", msg.Detail)
	}
}

func TestNewComplianceMessage(t *testing.T) {
	msg := NewComplianceMessage("CRITICAL: GST registration required", "critical")
	if msg.Kind != KindCompliance {
		t.Errorf("kind = %v, want %v", msg.Kind, KindCompliance)
	}
	if msg.Severity != "critical" {
		t.Errorf("severity = %q, want critical", msg.Severity)
	}
	if msg.Amount != nil {
		t.Errorf("amount = %v, want absent", *msg.Amount)
	}
}

func TestAlertMessageFromJSON_Invalid(t *testing.T) {
	if _, err := AlertMessageFromJSON([]byte(`{bad json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
