package dashboard

import (
	"fmt"
	"time"

	"finboard/internal/core"
)

// fallbackEntries is the built-in sample shown when the upstream API is
// unreachable, so the dashboard is never empty. Dates are offsets in days
// from the load time, which keeps the trend and current-month charts
// populated no matter when the fallback fires.
var fallbackEntries = []struct {
	daysAgo      int
	txnType      core.TxnType
	amount       float64
	category     string
	counterparty string
	insight      string
}{
	{2, core.Debited, 450, "Expense: Food & Dining", "Swiggy", "Frequent food delivery this week"},
	{4, core.Credited, 85000, "Income: Salary", "Acme Corp", ""},
	{6, core.Debited, 1299, "Netflix subscription", "Netflix", ""},
	{9, core.Debited, 2100, "Uber rides", "Uber", ""},
	{12, core.Debited, 15000, "home loan emi", "HDFC Bank", ""},
	{15, core.Debited, 890, "pharmacy", "Apollo Pharmacy", ""},
	{18, core.Debited, 3200, "amazon order", "Amazon", ""},
	{21, core.Credited, 12000, "freelance payout", "Upwork", "Irregular income source"},
	{34, core.Credited, 85000, "Income: Salary", "Acme Corp", ""},
	{38, core.Debited, 5600, "groceries", "BigBasket", ""},
	{41, core.Debited, 14800, "flight booking", "IndiGo", ""},
	{47, core.Debited, 15000, "home loan emi", "HDFC Bank", ""},
	{65, core.Credited, 85000, "Income: Salary", "Acme Corp", ""},
	{70, core.Debited, 9400, "shopping", "Myntra", ""},
	{76, core.Debited, 15000, "home loan emi", "HDFC Bank", ""},
}

// FallbackData builds the fixed sample dataset anchored at now. The summary
// is derived from the sample so the conservation-of-totals property holds for
// fallback renders too.
func FallbackData(now time.Time) ([]core.Transaction, core.Summary) {
	txns := make([]core.Transaction, 0, len(fallbackEntries))
	var summary core.Summary

	for i, e := range fallbackEntries {
		when := now.AddDate(0, 0, -e.daysAgo)
		txns = append(txns, core.Transaction{
			ID:           fmt.Sprintf("sample-%02d", i+1),
			Date:         when.UTC().Format(time.RFC3339),
			TxnType:      e.txnType,
			Amount:       e.amount,
			Category:     e.category,
			Counterparty: e.counterparty,
			Message:      "Sample transaction",
			AIInsight:    e.insight,
		})
		switch e.txnType {
		case core.Credited:
			summary.TotalCredit += e.amount
			if when.Year() == now.Year() {
				summary.YTDCredit += e.amount
			}
		case core.Debited:
			summary.TotalDebit += e.amount
		}
	}
	summary.NetBalance = summary.TotalCredit - summary.TotalDebit
	summary.LatestAlert = "Showing sample data: the finance API is unreachable"
	return txns, summary
}
