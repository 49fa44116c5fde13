package optimizer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
)

const tracerName = "github.com/cory-johannsen/armor-optimizer/internal/optimizer"

// Report is a Result tagged with its run ID and any normalization warnings.
type Report struct {
	RunID    string
	Result   Result
	Warnings []string
}

// Service runs Optimize for host processes, adding normalization, structured
// logging and a trace span. It holds no mutable state and is safe for concurrent use.
type Service struct {
	logger *zap.Logger
	tracer trace.Tracer
	newID  func() string
}

// NewService creates a Service.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Service using the global OpenTelemetry tracer provider.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		tracer: otel.Tracer(tracerName),
		newID:  uuid.NewString,
	}
}

// Optimize normalizes cfg against cat and runs one full recompute.
//
// Precondition: cat must be non-nil.
// Postcondition: Report.RunID is unique per call; Report.Result equals Optimize(cat, normalized cfg).
func (s *Service) Optimize(ctx context.Context, cat *armor.Catalog, cfg Config) Report {
	runID := s.newID()
	start := time.Now()

	_, span := s.tracer.Start(ctx, "optimizer.Optimize", trace.WithAttributes(
		attribute.String("optimizer.run_id", runID),
		attribute.String("optimizer.fitness", string(cfg.Mode)),
	))
	defer span.End()

	normalized, warnings := cfg.Normalize(cat)
	for _, w := range warnings {
		s.logger.Warn("optimizer: config adjusted",
			zap.String("run_id", runID),
			zap.String("warning", w),
		)
	}

	res := Optimize(cat, normalized)

	span.SetAttributes(
		attribute.Float64("optimizer.budget", res.Budget),
		attribute.Int("optimizer.sets", len(res.Sets)),
	)
	fields := []zap.Field{
		zap.String("run_id", runID),
		zap.String("fitness", fitness.Label(cfg.Mode)),
		zap.Float64("budget", res.Budget),
		zap.Int("sets", len(res.Sets)),
		zap.Duration("elapsed", time.Since(start)),
	}
	for i, slot := range armor.Slots {
		fields = append(fields, zap.Int("candidates_"+string(slot), len(res.Candidates[i])))
	}
	s.logger.Info("optimizer: recompute complete", fields...)

	return Report{RunID: runID, Result: res, Warnings: warnings}
}
