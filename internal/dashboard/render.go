package dashboard

import (
	"time"

	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/format"
)

// Data sources for a View.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// Row and KPI glyph/tone conventions: credits are green with an up arrow,
// debits red with a down arrow.
const (
	glyphUp   = "▲"
	glyphDown = "▼"

	creditColor = "#16a34a"
	debitColor  = "#dc2626"
)

// categoryPalette colors breakdown and expense-bucket slices, cycling when a
// breakdown has more categories than the palette.
var categoryPalette = []string{
	"#2563eb", "#16a34a", "#d97706", "#dc2626", "#7c3aed",
	"#0891b2", "#db2777", "#65a30d",
}

// Data is the input tuple of a render: everything a View is derived from.
// Render is idempotent — the same Data and ViewState always produce an
// identical View.
type Data struct {
	Txns    []core.Transaction
	Summary core.Summary
	Source  string
	Now     time.Time

	// GSTThreshold is the annual turnover above which GST registration is
	// mandatory. Zero hides the threshold KPI.
	GSTThreshold float64
}

// Render materializes the complete dashboard view model for the given state.
// It is pure: no clock, no network, no mutation of its inputs. An unknown
// state renders as the overview.
func Render(d Data, state ViewState) View {
	if !state.Valid() {
		state = Overview
	}
	buckets := analytics.MonthlyTrend(d.Txns, d.Now)
	prediction := analytics.PredictNextMonth(buckets)
	expenses := analytics.MonthlyExpenseBuckets(d.Txns, d.Now)

	view := View{
		State:        state,
		Title:        state.Title(),
		ShowBack:     state.ShowBack(),
		Source:       d.Source,
		KPIs:         renderKPIs(d.Summary, d.GSTThreshold),
		Distribution: renderDistribution(d.Txns, d.Summary, state),
		Trend:        renderTrend(buckets, prediction),
		ExpenseChart: renderExpenseChart(expenses),
		Rows:         renderRows(state.FilterTxns(d.Txns)),
		ExpenseTable: renderExpenseTable(expenses),
	}

	if d.Summary.LatestAlert != "" {
		view.Banner = &Banner{
			Text:     d.Summary.LatestAlert,
			Severity: d.Summary.AlertSeverity(),
		}
	}
	return view
}

func renderKPIs(s core.Summary, gstThreshold float64) []KPI {
	netTone := "positive"
	if s.NetBalance < 0 {
		netTone = "negative"
	}
	kpis := []KPI{
		{Label: "Total Credit", Value: format.Rupees(s.TotalCredit), Tone: "positive"},
		{Label: "Total Debit", Value: format.Rupees(s.TotalDebit), Tone: "negative"},
		{Label: "Net Balance", Value: format.Rupees(s.NetBalance), Tone: netTone},
		{Label: "YTD Credit", Value: format.Rupees(s.YTDCredit), Tone: "neutral"},
	}
	if gstThreshold > 0 {
		tone := "neutral"
		if s.YTDCredit >= gstThreshold {
			tone = "negative"
		}
		kpis = append(kpis, KPI{
			Label: "GST Threshold Used",
			Value: format.Percent(s.YTDCredit, gstThreshold),
			Tone:  tone,
		})
	}
	return kpis
}

// renderDistribution builds the two-slice credit/debit chart in Overview, or
// the per-category breakdown of the selected type in a drill-down state.
func renderDistribution(txns []core.Transaction, s core.Summary, state ViewState) PieChart {
	txnType, drilled := state.FilterType()
	if !drilled {
		return PieChart{
			Labels: []string{"Credited", "Debited"},
			Values: []float64{s.TotalCredit, s.TotalDebit},
			Colors: []string{creditColor, debitColor},
		}
	}

	breakdown := analytics.CategoryBreakdown(txns, txnType)
	chart := PieChart{
		Labels: make([]string, 0, len(breakdown)),
		Values: make([]float64, 0, len(breakdown)),
		Colors: make([]string, 0, len(breakdown)),
	}
	for i, entry := range breakdown {
		chart.Labels = append(chart.Labels, entry.Category)
		chart.Values = append(chart.Values, entry.Amount)
		chart.Colors = append(chart.Colors, categoryPalette[i%len(categoryPalette)])
	}
	return chart
}

func renderTrend(buckets []analytics.MonthBucket, p analytics.Prediction) TrendChart {
	chart := TrendChart{
		Points:     make([]TrendPoint, 0, len(buckets)+1),
		DashedFrom: len(buckets),
		TrendLabel: p.Trend,
	}
	for _, b := range buckets {
		chart.Points = append(chart.Points, TrendPoint{
			Label:  b.Label,
			Credit: b.Credit,
			Debit:  b.Debit,
			Net:    b.NetBalance,
		})
	}
	chart.Points = append(chart.Points, TrendPoint{
		Label:     p.Label,
		Credit:    p.Credit,
		Debit:     p.Debit,
		Net:       p.Net,
		Predicted: true,
	})
	return chart
}

func renderExpenseChart(expenses map[string]float64) PieChart {
	chart := PieChart{
		Labels: make([]string, 0, len(analytics.ExpenseBucketNames)),
		Values: make([]float64, 0, len(analytics.ExpenseBucketNames)),
		Colors: make([]string, 0, len(analytics.ExpenseBucketNames)),
	}
	for i, name := range analytics.ExpenseBucketNames {
		chart.Labels = append(chart.Labels, name)
		chart.Values = append(chart.Values, expenses[name])
		chart.Colors = append(chart.Colors, categoryPalette[i%len(categoryPalette)])
	}
	return chart
}

func renderRows(txns []core.Transaction) []TableRow {
	rows := make([]TableRow, 0, len(txns))
	for _, txn := range txns {
		glyph, tone := glyphDown, "negative"
		if txn.TxnType == core.Credited {
			glyph, tone = glyphUp, "positive"
		}
		rows = append(rows, TableRow{
			ID:           txn.ID,
			Date:         format.Date(txn.Date),
			Counterparty: txn.DisplayCounterparty(),
			Category:     txn.Category,
			Amount:       format.Signed(txn.Amount, txn.TxnType),
			Glyph:        glyph,
			Tone:         tone,
			Insight:      txn.AIInsight,
		})
	}
	return rows
}

func renderExpenseTable(expenses map[string]float64) []ExpenseRow {
	var total float64
	for _, v := range expenses {
		total += v
	}
	rows := make([]ExpenseRow, 0, len(analytics.ExpenseBucketNames))
	for _, name := range analytics.ExpenseBucketNames {
		rows = append(rows, ExpenseRow{
			Bucket:  name,
			Amount:  format.Rupees(expenses[name]),
			Percent: format.Percent(expenses[name], total),
		})
	}
	return rows
}
