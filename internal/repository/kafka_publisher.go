package repository

import (
	"context"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	pkgkafka "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/kafka"
)

// KafkaPublisher emits analysis events to Kafka, keyed by symbol so all
// events for one instrument land in the same partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher over an existing producer.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishAnalysis(ctx context.Context, ev *domrepo.AnalysisEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
