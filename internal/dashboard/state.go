package dashboard

import "finboard/internal/core"

const (
	Overview        ViewState = "overview"
	CreditBreakdown ViewState = "credit_breakdown"
	DebitBreakdown  ViewState = "debit_breakdown"
)

// ViewState is the active drill-down view. Overview shows the two-slice
// credit/debit distribution; the breakdown states narrow the chart and table
// to one transaction type. A full reload always resets to Overview.
type ViewState string

// Valid reports whether s is one of the three known states.
func (s ViewState) Valid() bool {
	switch s {
	case Overview, CreditBreakdown, DebitBreakdown:
		return true
	}
	return false
}

// Drilldown is the transition taken when the user selects a slice of the
// distribution chart. Only Overview has outgoing slice transitions; selecting
// a slice in a breakdown state is a no-op.
func (s ViewState) Drilldown(slice core.TxnType) ViewState {
	if s != Overview {
		return s
	}
	switch slice {
	case core.Credited:
		return CreditBreakdown
	case core.Debited:
		return DebitBreakdown
	}
	return s
}

// Back is the transition taken on the explicit back affordance. Both
// breakdown states return to Overview; Overview stays put.
func (s ViewState) Back() ViewState {
	return Overview
}

// Title is the heading shown for the state.
func (s ViewState) Title() string {
	switch s {
	case CreditBreakdown:
		return "Credit Breakdown"
	case DebitBreakdown:
		return "Debit Breakdown"
	default:
		return "Financial Overview"
	}
}

// ShowBack reports whether the back affordance is visible.
func (s ViewState) ShowBack() bool {
	return s != Overview
}

// FilterType returns the transaction type the state narrows to, and whether a
// filter applies at all (Overview shows everything).
func (s ViewState) FilterType() (core.TxnType, bool) {
	switch s {
	case CreditBreakdown:
		return core.Credited, true
	case DebitBreakdown:
		return core.Debited, true
	}
	return "", false
}

// FilterTxns returns the transaction subset visible in the state, preserving
// order. Overview returns the input slice unchanged.
func (s ViewState) FilterTxns(txns []core.Transaction) []core.Transaction {
	want, ok := s.FilterType()
	if !ok {
		return txns
	}
	out := make([]core.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.TxnType == want {
			out = append(out, txn)
		}
	}
	return out
}
