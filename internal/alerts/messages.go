package alerts

import (
	"encoding/json"
	"fmt"
	"time"
)

// Alert kinds published on the bus.
const (
	KindBudgetOverrun Kind = "budget_overrun"
	KindCompliance    Kind = "compliance"
)

// Kind identifies what raised an alert.
type Kind string

// AlertMessage is the wire format for one raised alert. The worker consumes
// these and appends them to the alert log. Amount is absent for alerts that
// carry no monetary figure, such as compliance advisories.
type AlertMessage struct {
	Kind      Kind      `json:"kind"`
	Severity  string    `json:"severity"` // "info", "warning" or "critical"
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	Amount    *float64  `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetOverrunMessage builds the alert raised when current-month debits
// exceed the configured monthly limit.
func NewBudgetOverrunMessage(limit, spent float64) *AlertMessage {
	overage := spent - limit
	pct := 0.0
	if limit > 0 {
		pct = overage / limit * 100
	}
	return &AlertMessage{
		Kind:      KindBudgetOverrun,
		Severity:  "warning",
		Title:     "Monthly budget exceeded",
		Detail:    fmt.Sprintf("Spent %.2f against a limit of %.2f (over by %.2f, %.1f%%)", spent, limit, overage, pct),
		Amount:    &overage,
		Timestamp: time.Now().UTC(),
	}
}

// NewComplianceMessage wraps an upstream compliance advisory.
func NewComplianceMessage(text, severity string) *AlertMessage {
	return &AlertMessage{
		Kind:      KindCompliance,
		Severity:  severity,
		Title:     "Compliance alert",
		Detail:    text,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes.
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
