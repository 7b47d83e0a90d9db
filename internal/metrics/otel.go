package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RegisterGauge exposes the store's cumulative totals as an observable
// gauge. The callback reads from SQLite at each collection interval.
// Call after the meter provider has been installed.
func RegisterGauge(store *Store) error {
	meter := otel.Meter("retriever/metrics")

	_, err := meter.Int64ObservableGauge(
		"retriever.invocations.total",
		metric.WithDescription("Cumulative total invocations by mode (query, chat, ingest)"),
		metric.WithUnit("{invocations}"),
		metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
			totals, err := store.AllTotals()
			if err != nil {
				return err
			}
			for mode, count := range totals {
				observer.Observe(count, metric.WithAttributes(
					attribute.String("mode", string(mode)),
				))
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("registering invocation gauge: %w", err)
	}
	return nil
}
