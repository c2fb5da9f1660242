package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"coldstore/internal/models"
	"coldstore/internal/monitoring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticBatch []models.RawReading

func (b staticBatch) Batch() []models.RawReading { return b }

// MockSink is a mock implementation of sink.Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Name() string { return "mock" }

func (m *MockSink) Publish(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func TestService_Run(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	monitor := monitoring.NewMonitor()
	s := NewService(newTestAggregator(), staticBatch{}, WithClock(func() time.Time { return fixed }), WithMonitor(monitor))

	report := s.Run(context.Background(), models.SourceSensor, []models.RawReading{
		models.NewReading("banana", 20, 85, 0, 0, 0, 0),
	})

	require.NotNil(t, report)
	_, err := uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, models.SourceSensor, report.Source)
	assert.Len(t, report.Zones, 1)
	assert.Len(t, report.Alerts, 1)

	items, ok := monitor.GetMetric("sensor_items")
	assert.True(t, ok)
	assert.Equal(t, 1, items)

	elapsed, ok := monitor.GetMetric("sensor_analysis_seconds")
	assert.True(t, ok)
	assert.IsType(t, float64(0), elapsed)
}

func TestService_SimulatePublishesToSinks(t *testing.T) {
	batch := staticBatch{
		models.NewReading("tomato", 10, 80, 0, 0, 0, 0),
		models.NewReading("onion", 4, 65, 0, 0, 0, 0),
	}
	ok := new(MockSink)
	broken := new(MockSink)
	ok.On("Publish", mock.Anything, mock.AnythingOfType("*models.Report")).Return(nil).Once()
	broken.On("Publish", mock.Anything, mock.Anything).Return(errors.New("offline")).Once()

	s := NewService(newTestAggregator(), batch,
		WithSinks(broken, ok),
		WithMetrics(monitoring.NewMetricsCollector()),
	)

	report := s.Simulate(context.Background())

	assert.Equal(t, models.SourceSimulated, report.Source)
	assert.Len(t, report.Zones, 2)
	ok.AssertExpectations(t)
	broken.AssertExpectations(t)
}

func TestService_HandleCycle(t *testing.T) {
	sk := new(MockSink)
	sk.On("Publish", mock.Anything, mock.MatchedBy(func(r *models.Report) bool {
		return r.Source == models.SourceSimulated && len(r.Zones) == 0
	})).Return(nil)

	s := NewService(newTestAggregator(), staticBatch{})
	s.AddSink(sk)
	s.HandleCycle(context.Background(), nil)

	sk.AssertNumberOfCalls(t, "Publish", 1)
}
