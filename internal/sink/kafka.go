package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coldstore/internal/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of kafka.Writer used by KafkaSink
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes reports as JSON messages keyed by report ID
type KafkaSink struct {
	writer MessageWriter
	topic  string
}

// NewKafkaSink creates a sink writing to the given brokers and topic
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}, topic)
}

// NewKafkaSinkWithWriter wraps an existing writer
func NewKafkaSinkWithWriter(w MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: w, topic: topic}
}

// Name implements Sink
func (k *KafkaSink) Name() string {
	return "kafka:" + k.topic
}

// Publish implements Sink
func (k *KafkaSink) Publish(ctx context.Context, report *models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(report.ID),
		Value: payload,
		Time:  report.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(report.Source)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write report to kafka topic %s: %w", k.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
