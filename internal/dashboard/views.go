package dashboard

// View models emitted by the renderer. These are the payloads a charting
// front end consumes; every render materializes a complete View so chart
// instances are replaced, never patched in place.

type (
	// KPI is one animated headline figure.
	KPI struct {
		Label string `json:"label"`
		Value string `json:"value"`
		Tone  string `json:"tone"` // "positive", "negative" or "neutral"
	}

	// PieChart is a labeled slice chart (distribution and expense-bucket
	// charts).
	PieChart struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
		Colors []string  `json:"colors"`
	}

	// TrendPoint is one month on the trend line. The predicted point is
	// excluded from the historical series and drawn dashed.
	TrendPoint struct {
		Label     string  `json:"label"`
		Credit    float64 `json:"credit"`
		Debit     float64 `json:"debit"`
		Net       float64 `json:"net"`
		Predicted bool    `json:"predicted"`
	}

	// TrendChart is the historical+predicted line chart. DashedFrom is the
	// index of the first predicted point.
	TrendChart struct {
		Points     []TrendPoint `json:"points"`
		DashedFrom int          `json:"dashed_from"`
		TrendLabel string       `json:"trend_label"`
	}

	// TableRow is one formatted transaction row.
	TableRow struct {
		ID           string `json:"id"`
		Date         string `json:"date"`
		Counterparty string `json:"counterparty"`
		Category     string `json:"category"`
		Amount       string `json:"amount"`
		Glyph        string `json:"glyph"` // up-arrow for credits, down-arrow for debits
		Tone         string `json:"tone"`
		Insight      string `json:"insight,omitempty"`
	}

	// ExpenseRow is one line of the textual expense table.
	ExpenseRow struct {
		Bucket  string `json:"bucket"`
		Amount  string `json:"amount"`
		Percent string `json:"percent"`
	}

	// Banner is the compliance advisory strip.
	Banner struct {
		Text     string `json:"text"`
		Severity string `json:"severity"` // "info" or "critical"
	}

	// BudgetAlert is the blocking notification raised when the monthly
	// budget limit is exceeded.
	BudgetAlert struct {
		Limit      string `json:"limit"`
		Spent      string `json:"spent"`
		Overage    string `json:"overage"`
		OveragePct string `json:"overage_pct"`
	}

	// Insights carries the upstream's natural-language chart annotations.
	// Absent when the insight call fails; insight failures are never fatal.
	Insights struct {
		Trend      string   `json:"trend"`
		Categories []string `json:"categories"`
	}

	// View is the complete dashboard view model for the current state.
	View struct {
		State        ViewState    `json:"state"`
		Title        string       `json:"title"`
		ShowBack     bool         `json:"show_back"`
		Source       string       `json:"source"` // "live" or "fallback"
		KPIs         []KPI        `json:"kpis"`
		Distribution PieChart     `json:"distribution"`
		Trend        TrendChart   `json:"trend"`
		ExpenseChart PieChart     `json:"expense_chart"`
		Rows         []TableRow   `json:"rows"`
		ExpenseTable []ExpenseRow `json:"expense_table"`
		Banner       *Banner      `json:"banner,omitempty"`
		BudgetAlert  *BudgetAlert `json:"budget_alert,omitempty"`
		Insights     *Insights    `json:"insights,omitempty"`
	}
)
