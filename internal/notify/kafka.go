package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes alert messages to a topic, keyed by subject so repeated
// alerts for one target land on the same partition.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type kafkaPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (k *Kafka) Publish(ctx context.Context, subject, body string) error {
	if k == nil || k.writer == nil {
		return fmt.Errorf("kafka disabled")
	}
	payload, err := json.Marshal(kafkaPayload{Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(subject),
		Value: payload,
	})
}

func (k *Kafka) Close() error {
	if k == nil || k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
