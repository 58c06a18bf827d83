package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/alerts"
	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/format"
	"finboard/internal/gateway"
	"finboard/internal/log"
)

// Phase is the controller's load lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseLoaded   Phase = "loaded"
	PhaseFallback Phase = "fallback_loaded"
)

// API is the upstream surface the controller loads from.
type API interface {
	Transactions(ctx context.Context) ([]core.Transaction, error)
	Summary(ctx context.Context) (core.Summary, error)
}

// AlertPublisher pushes alert messages onto the bus. Publishing is always
// best-effort: a dead bus never fails a dashboard load.
type AlertPublisher interface {
	Publish(ctx context.Context, msg *alerts.AlertMessage) error
}

// InsightProvider annotates rendered charts. Optional and best-effort.
type InsightProvider interface {
	ChartInsights(ctx context.Context, req gateway.ChartInsightsRequest) (gateway.ChartInsightsResponse, error)
}

// Controller owns the dashboard's data, view state and load lifecycle.
// Transactions and summary are fetched concurrently; if either fetch fails
// the whole dataset is replaced by the built-in sample so the dashboard is
// never blank. Every load resets the drill-down state to the overview.
type Controller struct {
	api          API
	publisher    AlertPublisher
	insights     InsightProvider
	budgetLimit  float64
	gstThreshold float64
	logger       *log.Logger
	now          func() time.Time

	generation atomic.Uint64

	mu          sync.Mutex
	phase       Phase
	state       ViewState
	data        Data
	budgetAlert *BudgetAlert
	annotations *Insights
}

// ControllerOption configures optional controller collaborators.
type ControllerOption func(*Controller)

// WithAlertPublisher wires the alert bus.
func WithAlertPublisher(p AlertPublisher) ControllerOption {
	return func(c *Controller) { c.publisher = p }
}

// WithInsightProvider wires chart annotations.
func WithInsightProvider(p InsightProvider) ControllerOption {
	return func(c *Controller) { c.insights = p }
}

// WithGSTThreshold enables the GST turnover KPI. Zero hides it.
func WithGSTThreshold(threshold float64) ControllerOption {
	return func(c *Controller) { c.gstThreshold = threshold }
}

// WithClock overrides the controller's clock.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// NewController creates an idle controller. budgetLimit is the monthly debit
// ceiling in rupees; zero disables the budget check.
func NewController(api API, budgetLimit float64, logger *log.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:         api,
		budgetLimit: budgetLimit,
		logger:      logger.WithComponent(log.ComponentDashboard),
		now:         time.Now,
		phase:       PhaseIdle,
		state:       Overview,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches transactions and summary concurrently and commits the result.
// On any fetch failure the sample dataset is committed instead, so Load only
// distinguishes outcomes through the returned phase. A Load that is overtaken
// by a newer Load discards its result and leaves the newer state untouched.
func (c *Controller) Load(ctx context.Context) Phase {
	gen := c.generation.Add(1)

	c.mu.Lock()
	c.phase = PhaseLoading
	c.mu.Unlock()

	now := c.now()

	var (
		txns    []core.Transaction
		summary core.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = c.api.Transactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = c.api.Summary(gctx)
		return err
	})

	source := SourceLive
	phase := PhaseLoaded
	if err := g.Wait(); err != nil {
		c.logger.Warn("dashboard load failed, using sample data",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err.Error())
		txns, summary = FallbackData(now)
		source = SourceFallback
		phase = PhaseFallback
	}

	budgetAlert, overrun := c.checkBudget(txns, now)
	var annotations *Insights
	if source == SourceLive {
		annotations = c.fetchAnnotations(ctx, txns, now)
	}

	c.mu.Lock()
	if gen != c.generation.Load() {
		c.mu.Unlock()
		c.logger.Debug("discarding overtaken load", log.FieldGeneration, gen)
		return c.Phase()
	}
	c.phase = phase
	c.state = Overview
	c.data = Data{Txns: txns, Summary: summary, Source: source, Now: now, GSTThreshold: c.gstThreshold}
	c.budgetAlert = budgetAlert
	c.annotations = annotations
	c.mu.Unlock()

	c.logger.Info("dashboard loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldDataSource, source,
		"transactions", len(txns))

	if overrun != nil {
		c.publish(ctx, overrun)
	}
	if source == SourceLive && summary.AlertSeverity() == "critical" {
		c.publish(ctx, alerts.NewComplianceMessage(summary.LatestAlert, "critical"))
	}
	return phase
}

// View renders the dashboard for the current state. Rendering is pure; the
// budget alert and chart annotations captured at load time are attached to
// the rendered view.
func (c *Controller) View() View {
	c.mu.Lock()
	data := c.data
	state := c.state
	budgetAlert := c.budgetAlert
	annotations := c.annotations
	c.mu.Unlock()

	view := Render(data, state)
	view.BudgetAlert = budgetAlert
	view.Insights = annotations
	return view
}

// Drilldown narrows the dashboard to one side of the ledger. Only the
// overview can be drilled into; drill requests in any other state are
// ignored.
func (c *Controller) Drilldown(slice core.TxnType) ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.Drilldown(slice)
	c.logger.Debug("drilldown", log.FieldViewState, string(c.state))
	return c.state
}

// Back returns to the overview from any state.
func (c *Controller) Back() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.Back()
	c.logger.Debug("back to overview", log.FieldViewState, string(c.state))
	return c.state
}

// State returns the current drill-down state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase returns the current load phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// checkBudget compares the current month's debit total against the limit.
func (c *Controller) checkBudget(txns []core.Transaction, now time.Time) (*BudgetAlert, *alerts.AlertMessage) {
	if c.budgetLimit <= 0 {
		return nil, nil
	}
	spent := 0.0
	for _, v := range analytics.MonthlyExpenseBuckets(txns, now) {
		spent += v
	}
	if spent <= c.budgetLimit {
		return nil, nil
	}
	overage := spent - c.budgetLimit
	alert := &BudgetAlert{
		Limit:      format.Rupees(c.budgetLimit),
		Spent:      format.Rupees(spent),
		Overage:    format.Rupees(overage),
		OveragePct: format.Percent(overage, c.budgetLimit),
	}
	return alert, alerts.NewBudgetOverrunMessage(c.budgetLimit, spent)
}

// fetchAnnotations asks the insight provider to annotate the trend and
// category charts. Failures are logged and swallowed.
func (c *Controller) fetchAnnotations(ctx context.Context, txns []core.Transaction, now time.Time) *Insights {
	if c.insights == nil {
		return nil
	}

	buckets := analytics.MonthlyTrend(txns, now)
	req := gateway.ChartInsightsRequest{
		DataPoints:   make([]float64, 0, len(buckets)),
		Labels:       make([]string, 0, len(buckets)),
		CategoryData: make(map[string]float64),
	}
	for _, b := range buckets {
		req.DataPoints = append(req.DataPoints, b.NetBalance)
		req.Labels = append(req.Labels, b.Label)
	}
	for _, ca := range analytics.CategoryBreakdown(txns, core.Debited) {
		req.CategoryData[ca.Category] = ca.Amount
	}

	resp, err := c.insights.ChartInsights(ctx, req)
	if err != nil || !resp.Success {
		return nil
	}
	return &Insights{Trend: resp.TrendInsight, Categories: resp.CategoryInsights}
}

// publish sends an alert on the bus, tolerating a missing or failing bus.
func (c *Controller) publish(ctx context.Context, msg *alerts.AlertMessage) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, msg); err != nil {
		fields := log.NewFields().WithOperation(log.OpPublish).WithError(err)
		fields[log.FieldAlertKind] = string(msg.Kind)
		c.logger.Warn("alert publish failed", fields.ToSlice()...)
	}
}
