// Package kafka publishes outbox notifications to a Kafka topic. Messages are keyed by
// recipient so the notifications of one user keep their order within a partition.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// HeaderEventType carries the event type so consumers can filter without decoding.
const HeaderEventType = "event-type"

var _ ports.NotificationSink = &NotificationSink{}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter creates a synchronous writer for topic. Deliver must know whether the
// broker took the message before the event is marked dispatched.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NotificationSink implements NotificationSink on a kafka writer.
type NotificationSink struct {
	writer messageWriter
}

// NewNotificationSink creates a sink over writer.
func NewNotificationSink(writer messageWriter) *NotificationSink {
	return &NotificationSink{writer: writer}
}

// Deliver writes the envelope of event, keyed by its recipient.
func (s *NotificationSink) Deliver(ctx context.Context, event notification.Event) error {
	envelope := event.Envelope()
	value, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(envelope.RecipientID),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
	})
}

// Close flushes and closes the writer.
func (s *NotificationSink) Close() error {
	return s.writer.Close()
}
