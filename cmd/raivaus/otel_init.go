package main

import (
	"context"
	"log"
	"os"

	"github.com/yairfalse/raivaus/telemetry"
)

// initTelemetry initializes OTEL for the sweep.
// Can be disabled with RAIVAUS_TELEMETRY_DISABLED=true
func initTelemetry(ctx context.Context) func() {
	if os.Getenv("RAIVAUS_TELEMETRY_DISABLED") == "true" {
		return func() {}
	}

	cfg := telemetry.Config{
		ServiceName:    "raivaus",
		ServiceVersion: version,
		Environment:    os.Getenv("RAIVAUS_ENVIRONMENT"),
		OTELEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:       true, // local collectors only
	}

	shutdown, err := telemetry.InitOTEL(ctx, cfg)
	if err != nil {
		// Telemetry failing must never block a sweep.
		log.Printf("telemetry initialization failed: %v", err)
		return func() {}
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("telemetry shutdown failed: %v", err)
		}
	}
}

// Environment variables:
// - OTEL_EXPORTER_OTLP_ENDPOINT: collector address (default: localhost:4317)
// - RAIVAUS_TELEMETRY_DISABLED: set to "true" to disable telemetry
// - RAIVAUS_ENVIRONMENT: environment name (dev, staging, prod)
