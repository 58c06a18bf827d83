package sheets

import (
	"context"

	"finboard/internal/alerts"
)

// Ports for outbound alert sinks.
type (
	// AlertWriter appends one alert to the audit log and returns a row
	// reference for traceability.
	AlertWriter interface {
		Append(ctx context.Context, msg *alerts.AlertMessage) (rowRef string, err error)
	}
)
