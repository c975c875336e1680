package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

const eventType = "menu.changed"

var _ ports.ChangeRecorder = (*KafkaPublisher)(nil)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher notifies integrations of menu changes. Messages are keyed by
// restaurant id so one restaurant's changes stay ordered within a partition.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// NewWriter builds a writer for topic. Brokers must not be empty.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

type message struct {
	Type string `json:"type"`
	domain.ChangeEvent
}

func (p *KafkaPublisher) Record(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(message{Type: eventType, ChangeEvent: event})
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RestaurantID),
		Value: payload,
		Time:  event.At,
	})
	if err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}
