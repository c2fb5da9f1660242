package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"coldstore/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	payload []byte
}

// fakeClient records publications and subscriptions; other methods are unused
type fakeClient struct {
	mqtt.Client
	published  []published
	handlers   map[string]mqtt.MessageHandler
	publishErr error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, published{topic: topic, payload: payload.([]byte)})
	return &fakeToken{err: c.publishErr}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if c.handlers == nil {
		c.handlers = make(map[string]mqtt.MessageHandler)
	}
	c.handlers[topic] = callback
	return &fakeToken{}
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// MockProcessor is a mock implementation of the Processor interface
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Run(ctx context.Context, source string, readings []models.RawReading) *models.Report {
	args := m.Called(ctx, source, readings)
	return args.Get(0).(*models.Report)
}

func TestSubscriber_HandlesBatch(t *testing.T) {
	client := &fakeClient{}
	proc := new(MockProcessor)
	proc.On("Run", mock.Anything, models.SourceSensor, mock.MatchedBy(func(r []models.RawReading) bool {
		return len(r) == 2 && *r[0].Label == "banana" && *r[1].Label == "onion"
	})).Return(&models.Report{ID: "r1", Dashboard: models.Dashboard{Zones: map[string]*models.ZoneSummary{}}})

	sub := NewSubscriber(context.Background(), client, "coldstore/+/readings", proc)
	require.NoError(t, sub.Subscribe())

	handler := client.handlers["coldstore/+/readings"]
	require.NotNil(t, handler)
	handler(client, &fakeMessage{
		topic:   "coldstore/unit-7/readings",
		payload: []byte(`{"items":[{"label":"banana","temperature":14},{"label":"onion"}]}`),
	})

	proc.AssertExpectations(t)
}

func TestSubscriber_IgnoresGarbage(t *testing.T) {
	client := &fakeClient{}
	proc := new(MockProcessor)

	sub := NewSubscriber(context.Background(), client, "coldstore/+/readings", proc)
	require.NoError(t, sub.Subscribe())

	client.handlers["coldstore/+/readings"](client, &fakeMessage{topic: "coldstore/u/readings", payload: []byte("not json")})
	client.handlers["coldstore/+/readings"](client, &fakeMessage{topic: "coldstore/u/readings", payload: nil})

	proc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublisher_Publish(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "coldstore/dashboard/{source}")

	report := &models.Report{ID: "abc", Source: models.SourceSimulated, Dashboard: models.Dashboard{
		Zones:  map[string]*models.ZoneSummary{},
		Alerts: []models.Alert{},
	}}
	require.NoError(t, p.Publish(context.Background(), report))

	require.Len(t, client.published, 1)
	assert.Equal(t, "coldstore/dashboard/simulated", client.published[0].topic)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(client.published[0].payload, &decoded))
	assert.Equal(t, "abc", decoded["id"])
	assert.Contains(t, decoded, "storage_compartments")
	assert.Contains(t, decoded, "active_alerts")
}

func TestPublisher_PublishError(t *testing.T) {
	client := &fakeClient{publishErr: errors.New("not connected")}
	p := NewPublisher(client, "coldstore/dashboard")

	err := p.Publish(context.Background(), &models.Report{ID: "x", Source: models.SourceSensor})
	assert.ErrorContains(t, err, "not connected")
	assert.Equal(t, "mqtt:coldstore/dashboard", p.Name())
}

func TestExtractUnitID(t *testing.T) {
	assert.Equal(t, "unit-7", extractUnitID("coldstore/unit-7/readings"))
	assert.Equal(t, "", extractUnitID("readings"))
}
