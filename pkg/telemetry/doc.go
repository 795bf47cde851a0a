// Package telemetry exports render passes as Prometheus metrics and
// OpenTelemetry spans. Both Metrics and Tracer are runtime observers:
//
//	rt := runtime.New(
//	    runtime.WithObserver(telemetry.NewMetrics(telemetry.WithNamespace("myapp"))),
//	    runtime.WithObserver(telemetry.NewTracer()),
//	)
package telemetry
