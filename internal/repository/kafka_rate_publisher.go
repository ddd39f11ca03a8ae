package repository

import (
	"context"

	"FxPulse/internal/domain/models"
	pkgkafka "FxPulse/pkg/kafka"
	applogger "FxPulse/pkg/logger"
)

// KafkaRatePublisher broadcasts resolved quotes for downstream consumers.
// The message key is the currency code so one currency stays on one partition.
type KafkaRatePublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaRatePublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaRatePublisher {
	return &KafkaRatePublisher{producer: producer, topic: topic, l: l}
}

func (p *KafkaRatePublisher) PublishQuote(ctx context.Context, quote *models.RateQuote) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(quote.Currency), quote); err != nil {
		p.l.Warn("rate publish failed",
			applogger.String("topic", p.topic),
			applogger.String("date", quote.Date.Format("2006-01-02")),
			applogger.Error(err),
		)
		return err
	}
	return nil
}

func (p *KafkaRatePublisher) Close() error {
	return p.producer.Close()
}

// NopRatePublisher is used when kafka is disabled.
type NopRatePublisher struct{}

func (NopRatePublisher) PublishQuote(context.Context, *models.RateQuote) error { return nil }
func (NopRatePublisher) Close() error                                          { return nil }
