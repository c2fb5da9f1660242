package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"coldstore/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// Publisher is a sink that publishes reports to an MQTT topic. The topic may
// contain a {source} placeholder, e.g. "coldstore/dashboard/{source}".
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher creates a report publisher
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Name implements sink.Sink
func (p *Publisher) Name() string {
	return "mqtt:" + p.topic
}

// Publish implements sink.Sink
func (p *Publisher) Publish(ctx context.Context, report *models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	topic := formatTopic(p.topic, report.Source)
	token := p.client.Publish(topic, 1, false, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if !token.WaitTimeout(timeout) {
		return errors.New("timed out publishing report to " + topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish report to %s: %w", topic, err)
	}
	return nil
}

func formatTopic(pattern, source string) string {
	return strings.ReplaceAll(pattern, "{source}", source)
}
