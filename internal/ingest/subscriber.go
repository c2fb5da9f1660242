package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"coldstore/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Processor analyses a batch of readings
type Processor interface {
	Run(ctx context.Context, source string, readings []models.RawReading) *models.Report
}

// Subscriber feeds sensor payloads from MQTT into the dashboard service
type Subscriber struct {
	client    mqtt.Client
	topic     string
	processor Processor
	ctx       context.Context
}

// NewSubscriber creates a subscriber for a readings topic such as "coldstore/+/readings"
func NewSubscriber(ctx context.Context, client mqtt.Client, topic string, processor Processor) *Subscriber {
	return &Subscriber{
		client:    client,
		topic:     topic,
		processor: processor,
		ctx:       ctx,
	}
}

// Subscribe registers the message handler with the broker
func (s *Subscriber) Subscribe() error {
	token := s.client.Subscribe(s.topic, 1, s.handleReadings)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to readings topic %s: %w", s.topic, token.Error())
	}
	log.Printf("Subscribed to readings topic: %s", s.topic)
	return nil
}

// Unsubscribe removes the subscription
func (s *Subscriber) Unsubscribe() {
	token := s.client.Unsubscribe(s.topic)
	if token.Wait() && token.Error() != nil {
		log.Printf("Error unsubscribing from %s: %v", s.topic, token.Error())
	}
}

// handleReadings processes a single reading or a batch published by a unit
func (s *Subscriber) handleReadings(client mqtt.Client, msg mqtt.Message) {
	readings, err := models.ParseReadings(msg.Payload())
	if err != nil {
		log.Printf("Error parsing readings from topic %s: %v", msg.Topic(), err)
		return
	}

	report := s.processor.Run(s.ctx, models.SourceSensor, readings)
	log.Printf("Analysed %d readings from unit %s: report=%s zones=%d alerts=%d",
		len(readings), extractUnitID(msg.Topic()), report.ID, len(report.Zones), len(report.Alerts))
}

// extractUnitID returns the second topic segment
// Example: "coldstore/unit-7/readings" -> "unit-7"
func extractUnitID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}
