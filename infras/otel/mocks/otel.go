// Package mocks provides an Otel for tests. Spans go through the real Scope over a no-op tracer.
package mocks

import (
	"housing/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

func NewOtel() otel.Otel {
	return otel.NewWithProvider(noop.NewTracerProvider())
}
