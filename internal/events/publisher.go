package events

import (
	"context"
	"encoding/json"
	"time"

	"admarket_backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

// PaymentEvent - событие смены статуса окна оплаты, публикуемое наружу.
type PaymentEvent struct {
	PaymentRequestID string    `json:"payment_request_id"`
	Status           string    `json:"status"`
	ChangedBy        string    `json:"changed_by"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Publisher - внешний канал платежных событий. Доставку гарантирует
// outbox-воркер, поэтому Publish может просто вернуть ошибку.
type Publisher interface {
	Publish(ctx context.Context, event PaymentEvent) error
	Close() error
}

// --- Kafka ---

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event PaymentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.PaymentRequestID),
		Value: payload,
		Time:  event.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// --- Noop (Kafka не сконфигурирована) ---

type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, event PaymentEvent) error {
	logger.Debug("payment event dropped (no kafka brokers configured)",
		"payment_request_id", event.PaymentRequestID,
		"status", event.Status,
	)
	return nil
}

func (NoopPublisher) Close() error { return nil }
