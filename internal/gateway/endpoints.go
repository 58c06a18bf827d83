package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"finboard/internal/core"
)

// ChartInsightsRequest carries the series the upstream explains.
type ChartInsightsRequest struct {
	DataPoints   []float64          `json:"data_points"`
	Labels       []string           `json:"labels"`
	CategoryData map[string]float64 `json:"category_data"`
}

// ChartInsightsResponse is the upstream's natural-language annotation of the
// trend and category charts.
type ChartInsightsResponse struct {
	Success          bool     `json:"success"`
	TrendInsight     string   `json:"trend_insight"`
	CategoryInsights []string `json:"category_insights"`
}

// InvoiceResult is the upstream's confirmation for a generated invoice.
type InvoiceResult struct {
	Success   bool   `json:"success"`
	InvoiceID string `json:"invoice_id"`
	Detail    string `json:"detail,omitempty"`
}

// Transactions fetches the full transaction list.
func (c *Client) Transactions(ctx context.Context) ([]core.Transaction, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/api/transactions/", nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return body.Transactions, nil
}

// Summary fetches the upstream transaction summary.
func (c *Client) Summary(ctx context.Context) (core.Summary, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/api/transactions/summary", nil)
	if err != nil {
		return core.Summary{}, err
	}
	var s core.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return core.Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	return s, nil
}

// ChartInsights asks the upstream to annotate the rendered charts.
func (c *Client) ChartInsights(ctx context.Context, req ChartInsightsRequest) (ChartInsightsResponse, error) {
	raw, err := c.Call(ctx, http.MethodPost, "/api/ai/chart-insights", req)
	if err != nil {
		return ChartInsightsResponse{}, err
	}
	var resp ChartInsightsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ChartInsightsResponse{}, fmt.Errorf("decode chart insights: %w", err)
	}
	return resp, nil
}

// GenerateInvoice asks the upstream to produce an invoice for a transaction.
func (c *Client) GenerateInvoice(ctx context.Context, txn core.Transaction) (InvoiceResult, error) {
	raw, err := c.Call(ctx, http.MethodPost, "/api/invoices/generate", txn)
	if err != nil {
		return InvoiceResult{}, err
	}
	var res InvoiceResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return InvoiceResult{}, fmt.Errorf("decode invoice result: %w", err)
	}
	return res, nil
}
