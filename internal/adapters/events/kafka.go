package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"distance-matrix-service/internal/ports"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher emits matrix-built events to a Kafka topic, keyed by
// fingerprint so repeated builds of the same request land in one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka publisher: brokers and topic are required")
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}, nil
}

func (p *KafkaPublisher) PublishMatrixBuilt(ctx context.Context, ev ports.MatrixBuiltEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publish matrix built: marshal: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Fingerprint),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish matrix built %q: %w", ev.Fingerprint, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
