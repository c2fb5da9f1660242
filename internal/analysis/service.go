package analysis

import (
	"context"
	"time"

	"coldstore/internal/models"
	"coldstore/internal/monitoring"
	"coldstore/internal/sink"

	"github.com/google/uuid"
)

// BatchSource produces a batch of readings when no sensor payload is given
type BatchSource interface {
	Batch() []models.RawReading
}

// Service runs analysis cycles and distributes the resulting reports
type Service struct {
	aggregator *Aggregator
	simulator  BatchSource
	metrics    *monitoring.MetricsCollector
	monitor    *monitoring.Monitor
	sinks      *sink.Fanout
	now        func() time.Time
}

// ServiceOption customises a Service
type ServiceOption func(*Service)

// WithMetrics records every report in a Prometheus collector
func WithMetrics(m *monitoring.MetricsCollector) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithMonitor records every report in the in-memory monitor
func WithMonitor(m *monitoring.Monitor) ServiceOption {
	return func(s *Service) { s.monitor = m }
}

// WithSinks publishes every report to the given sinks
func WithSinks(sinks ...sink.Sink) ServiceOption {
	return func(s *Service) {
		for _, sk := range sinks {
			s.sinks.Add(sk)
		}
	}
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a dashboard service
func NewService(aggregator *Aggregator, simulator BatchSource, opts ...ServiceOption) *Service {
	s := &Service{
		aggregator: aggregator,
		simulator:  simulator,
		sinks:      sink.NewFanout(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddSink registers a sink after construction
func (s *Service) AddSink(sk sink.Sink) {
	s.sinks.Add(sk)
}

// Registry returns the profile registry behind the engine
func (s *Service) Registry() *models.Registry {
	return s.aggregator.analyzer.Registry()
}

// Run analyses a batch of readings and publishes the report
func (s *Service) Run(ctx context.Context, source string, readings []models.RawReading) *models.Report {
	start := time.Now()
	dashboard := s.aggregator.Aggregate(readings)
	elapsed := time.Since(start)

	report := &models.Report{
		ID:          uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Source:      source,
		Dashboard:   dashboard,
	}

	if s.metrics != nil {
		s.metrics.ObserveReport(report, elapsed)
	}
	if s.monitor != nil {
		s.monitor.RecordReport(report)
		s.monitor.RecordMetric(source+"_analysis_seconds", elapsed.Seconds())
	}
	// Sink failures are logged by the fan-out; the report is still returned
	_ = s.sinks.Publish(ctx, report)

	return report
}

// Simulate runs one cycle over a simulated batch
func (s *Service) Simulate(ctx context.Context) *models.Report {
	return s.Run(ctx, models.SourceSimulated, s.simulator.Batch())
}

// HandleCycle adapts Run to the simulation runner callback
func (s *Service) HandleCycle(ctx context.Context, readings []models.RawReading) {
	s.Run(ctx, models.SourceSimulated, readings)
}
