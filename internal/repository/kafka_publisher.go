package repository

import (
	"context"

	"PortfolioCore/internal/domain/models"
	domrepo "PortfolioCore/internal/domain/repository"
	pkgkafka "PortfolioCore/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	key      string
}

// NewKafkaPublisher creates Kafka publisher. Messages are keyed by the
// portfolio identifier so one portfolio's recommendations stay ordered.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic, portfolioKey string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic, key: portfolioKey}
}

func (p *KafkaPublisher) PublishRecommendation(ctx context.Context, rec *models.RebalanceRecommendation) error {
	return p.producer.Publish(ctx, p.topic, []byte(p.key), rec)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher is used when eventing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishRecommendation(ctx context.Context, rec *models.RebalanceRecommendation) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
