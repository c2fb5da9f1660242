package sink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"coldstore/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSink is a mock implementation of the Sink interface
type MockSink struct {
	mock.Mock
	name string
}

func (m *MockSink) Name() string {
	return m.name
}

func (m *MockSink) Publish(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// MockWriter is a mock implementation of MessageWriter
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func testReport() *models.Report {
	return &models.Report{
		ID:          "7f0c",
		GeneratedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Source:      models.SourceSimulated,
		Dashboard: models.Dashboard{
			Zones:  map[string]*models.ZoneSummary{},
			Alerts: []models.Alert{},
		},
	}
}

func TestFanout_PublishesToAllSinks(t *testing.T) {
	report := testReport()
	failing := &MockSink{name: "failing"}
	healthy := &MockSink{name: "healthy"}
	failing.On("Publish", mock.Anything, report).Return(errors.New("broker down"))
	healthy.On("Publish", mock.Anything, report).Return(nil)

	f := NewFanout(failing, nil, healthy)
	assert.Equal(t, 2, f.Len())

	err := f.Publish(context.Background(), report)
	assert.EqualError(t, err, "broker down")
	failing.AssertExpectations(t)
	healthy.AssertExpectations(t)
}

func TestFanout_Empty(t *testing.T) {
	f := NewFanout()
	assert.NoError(t, f.Publish(context.Background(), testReport()))
}

func TestKafkaSink_Publish(t *testing.T) {
	w := new(MockWriter)
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "7f0c" {
			return false
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded["source"] == models.SourceSimulated
	})).Return(nil)

	s := NewKafkaSinkWithWriter(w, "coldstore.dashboards")
	assert.Equal(t, "kafka:coldstore.dashboards", s.Name())
	require.NoError(t, s.Publish(context.Background(), testReport()))
	w.AssertExpectations(t)
}

func TestKafkaSink_PublishError(t *testing.T) {
	w := new(MockWriter)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	s := NewKafkaSinkWithWriter(w, "coldstore.dashboards")
	err := s.Publish(context.Background(), testReport())
	assert.ErrorContains(t, err, "leader not available")
}
