// Package google appends alert audit rows to a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	ports "finboard/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finboard/internal/alerts"
	"finboard/internal/format"
	"finboard/internal/log"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	alertsSheet   string
}

// Ensure interface conformance
var _ ports.AlertWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_ALERTS_SHEET_NAME (default "Alerts").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	alertsSheet := strings.TrimSpace(os.Getenv("GOOGLE_ALERTS_SHEET_NAME"))
	if alertsSheet == "" {
		alertsSheet = "Alerts"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		alertsSheet:   alertsSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// Append writes the alert as one row at the bottom of the alerts sheet.
func (c *Client) Append(ctx context.Context, msg *alerts.AlertMessage) (string, error) {
	if msg == nil {
		return "", errors.New("nil alert message")
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", c.alertsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{AlertRow(msg)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append alert to sheet %s: %w", c.alertsSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Alert appended to sheet",
		log.FieldComponent, log.ComponentSheets,
		"kind", msg.Kind,
		"severity", msg.Severity,
		"sheets_ref", ref)

	return ref, nil
}

// AlertRow converts an alert into the sheet's column layout:
// timestamp, kind, severity, title, detail, amount. The amount renders as a
// formatted rupee string; alerts without an amount render as "₹0".
func AlertRow(msg *alerts.AlertMessage) []any {
	return []any{
		msg.Timestamp.UTC().Format(time.RFC3339),
		string(msg.Kind),
		msg.Severity,
		msg.Title,
		msg.Detail,
		format.RupeesPtr(msg.Amount),
	}
}
