package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic is the validator-directory broadcast topic.
const DefaultTopic = "curation.validation-requests"

// dispatchTimeout bounds the broadcast path only; the state mutation that
// produced the request has already committed by the time this runs.
const dispatchTimeout = 5 * time.Second

// KafkaNotifier publishes validation requests to the validator directory's
// Kafka topic, keyed by record id so one record's requests stay ordered.
type KafkaNotifier struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaNotifier connects a producer to the given brokers.
func NewKafkaNotifier(brokers []string, topic string, logger *slog.Logger) (*KafkaNotifier, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &KafkaNotifier{client: client, topic: topic, logger: logger}, nil
}

func (n *KafkaNotifier) NotifyValidationRequested(ctx context.Context, req ValidationRequested) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal validation request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	record := &kgo.Record{
		Key:   []byte(req.RecordID.String()),
		Value: payload,
	}
	if err := n.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce validation request: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() {
	n.client.Close()
}
