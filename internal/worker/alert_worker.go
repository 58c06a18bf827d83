// Package worker drains the alert bus into the audit log.
package worker

import (
	"context"
	"fmt"

	"finboard/internal/alerts"
	"finboard/internal/log"
	"finboard/internal/sheets"
)

// AlertWorker consumes alert messages and appends them to a sink. A failed
// append returns the error so the bus redelivers the message.
type AlertWorker struct {
	sink   sheets.AlertWriter
	logger *log.Logger
}

func NewAlertWorker(sink sheets.AlertWriter, logger *log.Logger) *AlertWorker {
	return &AlertWorker{
		sink:   sink,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAlert processes a single alert message from the bus.
func (w *AlertWorker) HandleAlert(ctx context.Context, msg *alerts.AlertMessage) error {
	w.logger.InfoContext(ctx, "processing alert",
		log.FieldOperation, log.OpConsume,
		log.FieldAlertKind, string(msg.Kind),
		"severity", msg.Severity)

	ref, err := w.sink.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("append alert to sink: %w", err)
	}

	w.logger.InfoContext(ctx, "alert logged",
		log.FieldAlertKind, string(msg.Kind),
		log.FieldSheetsRef, ref)
	return nil
}

// Run consumes from the bus until ctx is cancelled.
func (w *AlertWorker) Run(ctx context.Context, bus *alerts.Client) error {
	w.logger.Info("alert worker starting", log.FieldOperation, log.OpStartup)
	return bus.Consume(ctx, func(msg *alerts.AlertMessage) error {
		return w.HandleAlert(ctx, msg)
	})
}
