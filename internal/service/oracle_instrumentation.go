package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/metrics"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/tracer"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type instrumentedOracle struct {
	next    intake.Oracle
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewInstrumentedOracle times every extraction and wraps it in a span.
func NewInstrumentedOracle(next intake.Oracle, m *metrics.Metrics) intake.Oracle {
	return &instrumentedOracle{next: next, metrics: m, tracer: tracer.Tracer("intake.oracle")}
}

func (o *instrumentedOracle) Extract(ctx context.Context, req intake.OracleRequest) (*intake.Extraction, error) {
	ctx, span := o.tracer.Start(ctx, "oracle.extract", trace.WithAttributes(
		attribute.String("intake.domain", req.Domain),
		attribute.String("intake.asked", req.Asked),
		attribute.Int("intake.turns", len(req.Turns)),
	))
	defer span.End()

	start := time.Now()
	ext, err := o.next.Extract(ctx, req)
	o.metrics.ObserveOracle(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if ext != nil {
		span.SetAttributes(
			attribute.String("intake.extracted_domain", ext.Domain),
			attribute.Int("intake.fields", len(ext.Fields)),
		)
	}
	return ext, nil
}
