package dashboard

import (
	"testing"

	"finboard/internal/core"
)

func TestDrilldownTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  ViewState
		slice core.TxnType
		want  ViewState
	}{
		{"overview to credit", Overview, core.Credited, CreditBreakdown},
		{"overview to debit", Overview, core.Debited, DebitBreakdown},
		{"overview unknown slice", Overview, core.Unknown, Overview},
		{"credit breakdown ignores drill", CreditBreakdown, core.Debited, CreditBreakdown},
		{"debit breakdown ignores drill", DebitBreakdown, core.Credited, DebitBreakdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Drilldown(tt.slice); got != tt.want {
				t.Errorf("Drilldown(%q) from %q = %q, want %q", tt.slice, tt.from, got, tt.want)
			}
		})
	}
}

func TestBackAlwaysReturnsOverview(t *testing.T) {
	for _, s := range []ViewState{Overview, CreditBreakdown, DebitBreakdown} {
		if got := s.Back(); got != Overview {
			t.Errorf("Back() from %q = %q, want overview", s, got)
		}
	}
}

func TestShowBack(t *testing.T) {
	if Overview.ShowBack() {
		t.Error("overview should not show back")
	}
	if !CreditBreakdown.ShowBack() || !DebitBreakdown.ShowBack() {
		t.Error("breakdown states should show back")
	}
}

func TestValid(t *testing.T) {
	for _, s := range []ViewState{Overview, CreditBreakdown, DebitBreakdown} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ViewState("sideways").Valid() {
		t.Error("unknown state should be invalid")
	}
}

func TestFilterTxns(t *testing.T) {
	txns := []core.Transaction{
		{ID: "1", TxnType: core.Credited, Amount: 100},
		{ID: "2", TxnType: core.Debited, Amount: 50},
		{ID: "3", TxnType: core.Credited, Amount: 25},
	}

	if got := Overview.FilterTxns(txns); len(got) != 3 {
		t.Errorf("overview filtered to %d rows, want all 3", len(got))
	}

	credits := CreditBreakdown.FilterTxns(txns)
	if len(credits) != 2 || credits[0].ID != "1" || credits[1].ID != "3" {
		t.Errorf("credit filter = %+v, want ids 1 and 3 in order", credits)
	}

	debits := DebitBreakdown.FilterTxns(txns)
	if len(debits) != 1 || debits[0].ID != "2" {
		t.Errorf("debit filter = %+v, want id 2", debits)
	}
}
