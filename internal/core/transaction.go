package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Credited TxnType = "Credited"
	Debited  TxnType = "Debited"
	Unknown  TxnType = "Unknown"
)

type (
	// TxnType is the direction of a transaction as reported by the upstream API.
	TxnType string

	// Transaction is a single upstream transaction. The client never mutates
	// transactions; they flow from the gateway into the aggregation pipeline
	// as-is.
	Transaction struct {
		ID              string  `json:"id"`
		Date            string  `json:"date"` // ISO-like timestamp, may be malformed
		TxnType         TxnType `json:"txn_type"`
		Amount          float64 `json:"amount"`
		Category        string  `json:"category"`
		Counterparty    string  `json:"counterparty"`
		Message         string  `json:"message"`
		AIInsight       string  `json:"ai_insight,omitempty"`
		ComplianceAlert string  `json:"compliance_alert,omitempty"`
	}

	// Summary is the upstream aggregate over all transactions.
	Summary struct {
		TotalCredit float64 `json:"total_credit"`
		TotalDebit  float64 `json:"total_debit"`
		NetBalance  float64 `json:"net_balance"`
		YTDCredit   float64 `json:"ytd_credit"`
		LatestAlert string  `json:"latest_alert,omitempty"`
	}
)

var ErrInvalidTxnType = errors.New("invalid transaction type")

// dateLayouts are tried in order when parsing transaction dates. The upstream
// emits RFC 3339 timestamps but older records carry bare dates or no zone.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTxnType normalizes an upstream txn_type string. Unrecognized values map
// to Unknown rather than failing; a single bad record must not break a load.
func ParseTxnType(s string) TxnType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credited", "credit":
		return Credited
	case "debited", "debit":
		return Debited
	default:
		return Unknown
	}
}

// ParseDate parses a transaction date string. The second return value reports
// whether the string parsed; callers exclude unparseable records from
// time-bucketed aggregates instead of failing.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// When returns the parsed transaction date, or a zero time if the date is
// malformed.
func (t Transaction) When() (time.Time, bool) {
	return ParseDate(t.Date)
}

// DisplayCounterparty returns the counterparty label with the upstream's
// fallback for absent values.
func (t Transaction) DisplayCounterparty() string {
	if strings.TrimSpace(t.Counterparty) == "" {
		return "Unknown"
	}
	return t.Counterparty
}

// Validate checks the fields the pipeline relies on.
func (t Transaction) Validate() error {
	switch t.TxnType {
	case Credited, Debited, Unknown:
	default:
		return ErrInvalidTxnType
	}
	if t.Amount < 0 {
		return errors.New("negative amount")
	}
	return nil
}

// AlertSeverity classifies the summary's latest compliance alert. The upstream
// marks urgent alerts with a CRITICAL token somewhere in the text.
func (s Summary) AlertSeverity() string {
	if s.LatestAlert == "" {
		return ""
	}
	if strings.Contains(strings.ToUpper(s.LatestAlert), "CRITICAL") {
		return "critical"
	}
	return "info"
}
